// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/tsanalyzer/pkg/base"
)

// ----------------------------------------------------------
// <iso13818-1.pdf> <Table 2-6> <page 40/174>
// adaptation_field_length              [8b] * 不包括自己这1字节
// discontinuity_indicator              [1b]
// random_access_indicator              [1b]
// elementary_stream_priority_indicator [1b]
// PCR_flag                             [1b]
// OPCR_flag                            [1b]
// splicing_point_flag                  [1b]
// transport_private_data_flag          [1b]
// adaptation_field_extension_flag      [1b] *
// -----if PCR_flag == 1-----
// program_clock_reference_base         [34b] * 按34b读取，见readPcr
// reserved                             [5b]
// program_clock_reference_extension    [9b] ******
// -----if OPCR_flag == 1-----
// original_program_clock_reference_... [48b] ****** 格式同PCR
// -----if splicing_point_flag == 1-----
// splice_countdown                     [8b] * 有符号
// -----if transport_private_data_flag == 1-----
// transport_private_data_length        [8b] *
// private_data_byte                    [8b * transport_private_data_length]
// -----if adaptation_field_extension_flag == 1-----
// adaptation_field_extension           不解析
// ----------------------------------------------------------

// AdaptationField 只有两种实现， *StuffingAdaptationField 和 *DataAdaptationField
//
type AdaptationField interface {
	// Length adaptation_field_length字段的值，不包括长度字段自身
	Length() uint8

	// Consumed 解析时实际读取的字节数，包括长度字段自身
	Consumed() int

	isAdaptationField()
}

// StuffingAdaptationField adaptation_field_length为0，只有长度字段这1个字节
//
type StuffingAdaptationField struct{}

func (*StuffingAdaptationField) Length() uint8 { return 0 }
func (*StuffingAdaptationField) Consumed() int { return 1 }
func (*StuffingAdaptationField) isAdaptationField() {}

type DataAdaptationField struct {
	AdaptationFieldLength uint8

	DiscontinuityIndicator            bool
	RandomAccessIndicator             bool
	ElementaryStreamPriorityIndicator bool
	PcrFlag                           bool
	OpcrFlag                          bool
	SplicingPointFlag                 bool
	TransportPrivateDataFlag          bool
	AdaptationFieldExtensionFlag      bool

	Pcr                  uint64 // PcrFlag为true时有效，27MHz时钟
	Opcr                 uint64 // OpcrFlag为true时有效
	SpliceCountdown      int8   // SplicingPointFlag为true时有效
	TransportPrivateData []byte // TransportPrivateDataFlag为true时有效，内存块为独立申请

	consumed int
}

func (af *DataAdaptationField) Length() uint8 { return af.AdaptationFieldLength }
func (af *DataAdaptationField) Consumed() int { return af.consumed }
func (*DataAdaptationField) isAdaptationField() {}

// Overrun 实际读取的字节数是否超出了adaptation_field_length声明的长度
//
func (af *DataAdaptationField) Overrun() bool {
	return af.consumed > int(af.AdaptationFieldLength)+1
}

// StuffingBytes 声明长度内没有被解析的尾部字节数，包括未解析的extension
//
func (af *DataAdaptationField) StuffingBytes() int {
	n := int(af.AdaptationFieldLength) + 1 - af.consumed
	if n < 0 {
		return 0
	}
	return n
}

// ParseAdaptationField
//
// @param b:      从adaptation_field_length字段开始的内存块
// @param remain: packet中从 b 开始还剩余的字节数，b 超出该长度的部分不会被读取
//
// @return consumed: 实际读取的字节数
//
func ParseAdaptationField(b []byte, remain int) (af AdaptationField, consumed int, err error) {
	if remain < len(b) {
		b = b[:remain]
	}
	if len(b) < 1 {
		return nil, 0, base.NewErrShortBuffer(1, len(b), "adaptation field length")
	}

	length := b[0]
	if length == 0 {
		return &StuffingAdaptationField{}, 1, nil
	}
	if int(length)+1 > len(b) {
		return nil, 0, base.NewErrShortBuffer(int(length)+1, len(b), "adaptation field")
	}

	daf := &DataAdaptationField{
		AdaptationFieldLength: length,
	}

	br := nazabits.NewBitReader(b[1:2])
	daf.DiscontinuityIndicator = readFlag(&br)
	daf.RandomAccessIndicator = readFlag(&br)
	daf.ElementaryStreamPriorityIndicator = readFlag(&br)
	daf.PcrFlag = readFlag(&br)
	daf.OpcrFlag = readFlag(&br)
	daf.SplicingPointFlag = readFlag(&br)
	daf.TransportPrivateDataFlag = readFlag(&br)
	daf.AdaptationFieldExtensionFlag = readFlag(&br)

	pos := 2

	if daf.PcrFlag {
		if pos+PcrSize > len(b) {
			return nil, 0, base.NewErrShortBuffer(pos+PcrSize, len(b), "pcr")
		}
		daf.Pcr = readPcr(b[pos:])
		pos += PcrSize
	}
	if daf.OpcrFlag {
		if pos+PcrSize > len(b) {
			return nil, 0, base.NewErrShortBuffer(pos+PcrSize, len(b), "opcr")
		}
		daf.Opcr = readPcr(b[pos:])
		pos += PcrSize
	}
	if daf.SplicingPointFlag {
		if pos+SpliceCountdownSize > len(b) {
			return nil, 0, base.NewErrShortBuffer(pos+SpliceCountdownSize, len(b), "splice countdown")
		}
		daf.SpliceCountdown = int8(b[pos])
		pos += SpliceCountdownSize
	}
	if daf.TransportPrivateDataFlag {
		if pos+TransportPrivateDataLengthSize > len(b) {
			return nil, 0, base.NewErrShortBuffer(pos+TransportPrivateDataLengthSize, len(b), "transport private data length")
		}
		n := int(b[pos])
		pos += TransportPrivateDataLengthSize
		if pos+n > len(b) {
			return nil, 0, base.NewErrShortBuffer(pos+n, len(b), "transport private data")
		}
		daf.TransportPrivateData = make([]byte, n)
		copy(daf.TransportPrivateData, b[pos:pos+n])
		pos += n
	}

	// TODO(chef): 解析adaptation_field_extension中的ltw/piecewise_rate/seamless_splice
	daf.consumed = pos

	if daf.Overrun() {
		Log.Warnf("adaptation field overrun. length=%d, consumed=%d", length, pos)
	}
	return daf, pos, nil
}

func readFlag(br *nazabits.BitReader) bool {
	v, _ := br.ReadBits8(1)
	return v == 1
}

// readPcr 读取6字节的PCR或OPCR
//
// 48b中，高34b为base，低9b为extension，中间5b保留位忽略
// 结果为 base * 300 + extension
//
func readPcr(b []byte) uint64 {
	v := uint64(bele.BeUint32(b))<<16 | uint64(bele.BeUint16(b[4:]))
	pcrBase := v >> 14
	pcrExt := v & 0x01FF
	return pcrBase*300 + pcrExt
}
