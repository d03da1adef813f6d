// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/klv"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

// 打印TS文件中第一个带payload的packet的payload内容
//
// Usage of ./bin/printfirstpayload:
//   -i string
//     	specify ts file
//   -k	only print payload which contains klv key
// Example:
//   ./bin/printfirstpayload -i in.ts
//   ./bin/printfirstpayload -i in.ts -k

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()
	base.LogoutStartInfo()

	filename, klvOnly := parseFlag()

	fp, err := os.Open(filename)
	nazalog.Assert(nil, err)
	defer fp.Close()

	r, err := mpegts.NewReader(fp)
	nazalog.Assert(nil, err)

	for pkt := r.NextPacketUnchecked(); pkt != nil; pkt = r.NextPacketUnchecked() {
		if !pkt.HasPayload() {
			continue
		}
		if klvOnly && !klv.Contains(pkt.Payload.Data) {
			continue
		}

		nazalog.Infof("first payload. file=%s, index=%d\n%s", filename, r.PacketsRead()-1, pkt.Header.String())
		nazalog.Infof("payload bytes=%d\n%s", len(pkt.Payload.Data), hex.Dump(nazabytes.Prefix(pkt.Payload.Data, mpegts.PacketSize)))
		return
	}
	nazalog.Warnf("no payload found. file=%s, packets=%d", filename, r.PacketsRead())
}

func parseFlag() (string, bool) {
	i := flag.String("i", "", "specify ts file")
	k := flag.Bool("k", false, "only print payload which contains klv key")
	flag.Parse()
	if *i == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `Example:
  %s -i in.ts
  %s -i in.ts -k
`, os.Args[0], os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *i, *k
}
