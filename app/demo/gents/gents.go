// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	ts "github.com/asticode/go-astits"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/klv"
)

// 生成一个用于测试的TS文件，包含一路视频PID和一路KLV metadata PID
//
// 视频数据是填充字节，不能播放，只用于测试packet和payload的解析
//
// Usage of ./bin/gents:
//   -o string
//     	specify output ts file
//   -n int
//     	num of frames (default 250)
//   -j int
//     	num of junk bytes before the first packet (default 0)
// Example:
//   ./bin/gents -o out.ts
//   ./bin/gents -o out.ts -n 1000 -j 7

const (
	videoPid = uint16(256)
	klvPid   = uint16(258)

	// ISO/IEC 13818-1 Table 2-34, Metadata carried in PES packets
	streamTypeMetadata = 0x15
	streamIdPrivate1   = 0xbd
	streamIdVideo      = 0xe0

	// 25fps
	ptsInterval = 3600
)

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()
	base.LogoutStartInfo()

	filename, num, junk := parseFlag()

	fp, err := os.Create(filename)
	nazalog.Assert(nil, err)
	defer fp.Close()
	w := bufio.NewWriter(fp)

	if junk > 0 {
		_, err = w.Write(make([]byte, junk))
		nazalog.Assert(nil, err)
	}

	mx := ts.NewMuxer(context.Background(), w)
	err = mx.AddElementaryStream(ts.PMTElementaryStream{
		ElementaryPID: videoPid,
		StreamType:    ts.StreamTypeH264Video,
	})
	nazalog.Assert(nil, err)
	err = mx.AddElementaryStream(ts.PMTElementaryStream{
		ElementaryPID: klvPid,
		StreamType:    ts.StreamType(streamTypeMetadata),
	})
	nazalog.Assert(nil, err)
	mx.SetPCRPID(videoPid)

	var total int
	for i := 0; i < num; i++ {
		pts := &ts.ClockReference{Base: int64(i) * ptsInterval}

		n, err := mx.WriteData(&ts.MuxerData{
			PID: videoPid,
			AdaptationField: &ts.PacketAdaptationField{
				RandomAccessIndicator: i%25 == 0,
			},
			PES: newPesData(streamIdVideo, pts, videoFrame(i)),
		})
		nazalog.Assert(nil, err)
		total += n

		n, err = mx.WriteData(&ts.MuxerData{
			PID: klvPid,
			PES: newPesData(streamIdPrivate1, pts, klvPacket(i)),
		})
		nazalog.Assert(nil, err)
		total += n
	}

	err = w.Flush()
	nazalog.Assert(nil, err)
	nazalog.Infof("ts file generated. file=%s, frames=%d, bytes=%d, junk=%d", filename, num, total, junk)
}

func newPesData(streamId uint8, pts *ts.ClockReference, data []byte) *ts.PESData {
	return &ts.PESData{
		Header: &ts.PESHeader{
			OptionalHeader: &ts.PESOptionalHeader{
				MarkerBits:      2,
				PTSDTSIndicator: ts.PTSDTSIndicatorOnlyPTS,
				PTS:             pts,
			},
			StreamID: streamId,
		},
		Data: data,
	}
}

// videoFrame 大小在几个packet之间变化，覆盖跨packet拼接的场景
func videoFrame(i int) []byte {
	b := make([]byte, 100+(i%7)*300)
	for j := range b {
		b[j] = byte(i)
	}
	return b
}

// klvPacket UAS Local Set，只包含一个Precision Time Stamp(tag 2，单位微秒)
func klvPacket(i int) []byte {
	us := uint64(i) * 40000
	value := []byte{0x02, 0x08}
	for shift := 56; shift >= 0; shift -= 8 {
		value = append(value, byte(us>>uint(shift)))
	}

	b := append([]byte{}, klv.UasLocalSetKey...)
	b = append(b, byte(len(value)))
	return append(b, value...)
}

func parseFlag() (string, int, int) {
	o := flag.String("o", "", "specify output ts file")
	n := flag.Int("n", 250, "num of frames")
	j := flag.Int("j", 0, "num of junk bytes before the first packet")
	flag.Parse()
	if *o == "" || *n < 1 || *j < 0 {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `Example:
  %s -o out.ts
  %s -o out.ts -n 1000 -j 7
`, os.Args[0], os.Args[0])
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *o, *n, *j
}
