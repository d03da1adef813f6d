// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/tsanalyzer/pkg/base"
)

// Packet 一个完整的188字节TS packet解析后的结果，创建后不再修改
//
// AdaptationField 和 Payload 是否存在，只由 Header.Adaptation 决定
//
type Packet struct {
	Header          TsPacketHeader
	AdaptationField AdaptationField // 可能为nil
	Payload         *Payload        // 可能为nil
}

// ParsePacket
//
// @param b: 必须为188字节，函数调用结束后，内部不持有该内存块
//
func ParsePacket(b []byte) (*Packet, error) {
	if len(b) != PacketSize {
		return nil, base.NewErrShortBuffer(PacketSize, len(b), "ts packet")
	}

	h, err := ParseTsPacketHeader(b)
	if err != nil {
		return nil, err
	}

	pkt := &Packet{
		Header: h,
	}
	index := HeaderSize

	if h.HasAdaptationField() {
		af, _, err := ParseAdaptationField(b[index:], PacketSize-index)
		if err != nil {
			return nil, err
		}
		pkt.AdaptationField = af
		// 按声明的长度跳过adaptation field，声明长度内没有解析的字节视为填充
		index += int(af.Length()) + 1
	}

	if h.HasPayload() {
		payload, err := ParsePayload(b[index:], h.PayloadUnitStart, h.Cc, index)
		if err != nil {
			return nil, err
		}
		pkt.Payload = payload
	}

	return pkt, nil
}

func (pkt *Packet) HasAdaptationField() bool {
	return pkt.Header.HasAdaptationField()
}

func (pkt *Packet) HasPayload() bool {
	return pkt.Header.HasPayload()
}

// PayloadData 没有payload时返回 base.ErrMpegtsNoPayload
//
func (pkt *Packet) PayloadData() ([]byte, error) {
	if pkt.Payload == nil {
		return nil, base.ErrMpegtsNoPayload
	}
	return pkt.Payload.Data, nil
}
