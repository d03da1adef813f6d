// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"fmt"

	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/tsanalyzer/pkg/base"
)

// ------------------------------------------------
// <iso13818-1.pdf> <2.4.3.2> <page 36/174>
// sync_byte                    [8b]  * always 0x47
// transport_error_indicator    [1b]
// payload_unit_start_indicator [1b]
// transport_priority           [1b]
// PID                          [13b] **
// transport_scrambling_control [2b]
// adaptation_field_control     [2b]
// continuity_counter           [4b]  *
// ------------------------------------------------
type TsPacketHeader struct {
	Tei              bool
	PayloadUnitStart bool // PUSI
	Prio             bool
	Pid              uint16
	Scra             TransportScramblingControl
	Adaptation       AdaptationFieldControl
	Cc               uint8
}

// ParseTsPacketHeader 解析4字节TS Packet header
//
// 位序为MSB在前，与标准文档中的线上顺序一致
//
func ParseTsPacketHeader(b []byte) (h TsPacketHeader, err error) {
	if len(b) < HeaderSize {
		return h, base.NewErrShortBuffer(HeaderSize, len(b), "ts packet header")
	}
	if b[0] != SyncByte {
		return h, &InvalidFirstByteError{Byte: b[0]}
	}

	br := nazabits.NewBitReader(b[1:HeaderSize])
	var v uint8
	v, _ = br.ReadBits8(1)
	h.Tei = v == 1
	v, _ = br.ReadBits8(1)
	h.PayloadUnitStart = v == 1
	v, _ = br.ReadBits8(1)
	h.Prio = v == 1
	h.Pid, _ = br.ReadBits16(13)
	v, _ = br.ReadBits8(2)
	h.Scra = TransportScramblingControl(v)
	v, _ = br.ReadBits8(2)
	h.Adaptation = AdaptationFieldControl(v)
	h.Cc, _ = br.ReadBits8(4)
	return h, nil
}

func (h TsPacketHeader) HasAdaptationField() bool {
	return h.Adaptation.HasAdaptationField()
}

func (h TsPacketHeader) HasPayload() bool {
	return h.Adaptation.HasPayload()
}

func (h TsPacketHeader) String() string {
	return fmt.Sprintf("TEI: %t\n"+
		"PUSI: %t\n"+
		"Transport Priority: %t\n"+
		"PID: %d\n"+
		"Transport Scrambling Control: %s\n"+
		"Adaptation Field Control: %s\n"+
		"Continuity Counter: %d",
		h.Tei, h.PayloadUnitStart, h.Prio, h.Pid, h.Scra, h.Adaptation, h.Cc)
}
