// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/klv"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

// 统计TS文件中包含KLV(MISB UAS Local Set)的payload unit个数
//
// 整个文件先读入内存，再从内存中解析
//
// Usage of ./bin/countklv:
//   -i string
//     	specify ts file
//   -p int
//     	only track this pid, -1 means all (default -1)
// Example:
//   ./bin/countklv -i in.ts
//   ./bin/countklv -i in.ts -p 258

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()
	base.LogoutStartInfo()

	filename, pid := parseFlag()

	content, err := os.ReadFile(filename)
	nazalog.Assert(nil, err)

	r, err := mpegts.NewReader(bytes.NewReader(content), func(option *mpegts.ReaderOption) {
		if pid >= 0 {
			option.TrackedPids = []uint16{uint16(pid)}
		}
	})
	nazalog.Assert(nil, err)

	var units, klvs int
	for {
		unit, err := r.NextPayloadUnit()
		nazalog.Assert(nil, err)
		if unit == nil {
			break
		}
		units++

		pkt, value, err := klv.Packet(unit.Data)
		if err != nil {
			nazalog.Warnf("klv packet truncated. pid=%d, err=%+v", unit.Pid, err)
			continue
		}
		if pkt == nil {
			continue
		}
		klvs++
		nazalog.Debugf("klv found. pid=%d, packet size=%d, value size=%d", unit.Pid, len(pkt), len(value))
	}

	nazalog.Infof("klv payloads found. file=%s, payload units=%d, klv payloads=%d", filename, units, klvs)
}

func parseFlag() (string, int) {
	i := flag.String("i", "", "specify ts file")
	p := flag.Int("p", -1, "only track this pid, -1 means all")
	flag.Parse()
	if *i == "" || *p > int(mpegts.MaxPid) {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `Example:
  %s -i in.ts
  %s -i in.ts -p 258
`, os.Args[0], os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *i, *p
}
