// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

// 列出TS文件中出现过的所有PID，以及每个PID的packet个数
//
// Usage of ./bin/listtspids:
//   -i string
//     	specify ts file
// Example:
//   ./bin/listtspids -i in.ts

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()
	base.LogoutStartInfo()

	filename := parseFlag()

	fp, err := os.Open(filename)
	nazalog.Assert(nil, err)
	defer fp.Close()

	r, err := mpegts.NewReader(fp)
	nazalog.Assert(nil, err)

	pid2count := make(map[uint16]int)
	for {
		pkt, err := r.NextPacket()
		nazalog.Assert(nil, err)
		if pkt == nil {
			break
		}
		pid2count[pkt.Header.Pid]++
	}

	var pids []uint16
	for pid := range pid2count {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool {
		return pids[i] < pids[j]
	})

	nazalog.Infof("pids in file. file=%s, pids=%v", filename, pids)
	for _, pid := range pids {
		nazalog.Infof("    pid=%d(0x%04x), packets=%d", pid, pid, pid2count[pid])
	}
}

func parseFlag() string {
	i := flag.String("i", "", "specify ts file")
	flag.Parse()
	if *i == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `Example:
  %s -i in.ts
`, os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *i
}
