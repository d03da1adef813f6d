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

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

// 统计TS文件中packet的个数
//
// Usage of ./bin/counttspackets:
//   -i string
//     	specify ts file
// Example:
//   ./bin/counttspackets -i in.ts

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

	packets := 0
	for {
		pkt, err := r.NextPacket()
		nazalog.Assert(nil, err)
		if pkt == nil {
			break
		}
		packets++
	}
	nazalog.Infof("packets in file. file=%s, packets=%d, alignment=%d", filename, packets, r.SyncByteAlignment())
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
