// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

// 测试用的packet构造参数，只用于生成测试数据
type testPacket struct {
	tei  bool
	pusi bool
	prio bool
	pid  uint16
	scra uint8
	afc  uint8
	cc   uint8

	af      []byte // 包含adaptation_field_length字段
	payload []byte // pusi为true时包含payload pointer字段
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func packHeader(tp testPacket) []byte {
	out := make([]byte, mpegts.HeaderSize)
	bw := nazabits.NewBitWriter(out)
	bw.WriteBits8(8, mpegts.SyncByte)
	bw.WriteBit(b2u(tp.tei))
	bw.WriteBit(b2u(tp.pusi))
	bw.WriteBit(b2u(tp.prio))
	bw.WriteBits16(13, tp.pid)
	bw.WriteBits8(2, tp.scra)
	bw.WriteBits8(2, tp.afc)
	bw.WriteBits8(4, tp.cc)
	return out
}

// packPacket 生成188字节的packet，不足的部分用0xFF填充
func packPacket(tp testPacket) []byte {
	out := make([]byte, 0, mpegts.PacketSize)
	out = append(out, packHeader(tp)...)
	out = append(out, tp.af...)
	out = append(out, tp.payload...)
	for len(out) < mpegts.PacketSize {
		out = append(out, 0xFF)
	}
	return out[:mpegts.PacketSize]
}

// packPcr 生成6字节的PCR字段，base占高34b，extension占低9b
func packPcr(pcrBase uint64, pcrExt uint16) []byte {
	out := make([]byte, mpegts.PcrSize)
	bw := nazabits.NewBitWriter(out)
	bw.WriteBits8(2, uint8(pcrBase>>32))
	bw.WriteBits16(16, uint16(pcrBase>>16))
	bw.WriteBits16(16, uint16(pcrBase))
	bw.WriteBits8(5, 0x1F)
	bw.WriteBits16(9, pcrExt)
	return out
}

// payloadPacket 生成一个只有payload的packet，pusi为true时pointer为0
func payloadPacket(pid uint16, pusi bool, cc uint8, data []byte) []byte {
	var payload []byte
	if pusi {
		payload = append(payload, 0)
	}
	payload = append(payload, data...)
	return packPacket(testPacket{
		pusi:    pusi,
		pid:     pid,
		afc:     uint8(mpegts.AdaptationFieldControlPayloadOnly),
		cc:      cc,
		payload: payload,
	})
}

func concat(bs ...[]byte) []byte {
	var out []byte
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
