// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"errors"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

func TestParsePacket_PayloadOnly(t *testing.T) {
	b := payloadPacket(0x101, true, 3, []byte{0xAA, 0xBB})
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint16(0x101), pkt.Header.Pid)
	assert.Equal(t, true, pkt.AdaptationField == nil)
	assert.Equal(t, true, pkt.HasPayload())
	assert.Equal(t, false, pkt.HasAdaptationField())
	assert.Equal(t, mpegts.PacketSize-mpegts.HeaderSize-1, len(pkt.Payload.Data))
	assert.Equal(t, []byte{0xAA, 0xBB}, pkt.Payload.Data[:2])
	assert.Equal(t, uint8(3), pkt.Payload.Cc)
}

func TestParsePacket_AdaptationOnly(t *testing.T) {
	af := make([]byte, mpegts.PacketSize-mpegts.HeaderSize)
	af[0] = byte(len(af) - 1)
	af[1] = 0x10
	copy(af[2:], packPcr(27000000/300, 0))
	b := packPacket(testPacket{
		pid: 0x100,
		afc: uint8(mpegts.AdaptationFieldControlAdaptationOnly),
		af:  af,
	})
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, pkt.Payload == nil)
	daf := pkt.AdaptationField.(*mpegts.DataAdaptationField)
	assert.Equal(t, uint64(27000000), daf.Pcr)
	assert.Equal(t, 183-6-1, daf.StuffingBytes())
}

func TestParsePacket_AdaptationAndPayload(t *testing.T) {
	// 声明长度内的字节没有全部被解析，剩余部分当作填充跳过
	af := []byte{5, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}
	payload := make([]byte, mpegts.PacketSize-mpegts.HeaderSize-len(af))
	payload[0] = 3
	for i := 1; i < len(payload); i++ {
		payload[i] = byte(i)
	}
	b := packPacket(testPacket{
		pusi:    true,
		pid:     0x200,
		afc:     uint8(mpegts.AdaptationFieldControlAdaptationAndPayload),
		cc:      15,
		af:      af,
		payload: payload,
	})
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, pkt.HasAdaptationField())
	assert.Equal(t, uint8(5), pkt.AdaptationField.Length())
	assert.Equal(t, 2, pkt.AdaptationField.Consumed())
	assert.Equal(t, payload[1:], pkt.Payload.Data)
	sd, err := pkt.Payload.StartData()
	assert.Equal(t, nil, err)
	assert.Equal(t, payload[4:], sd)
	assert.Equal(t, uint8(15), pkt.Payload.Cc)
}

func TestParsePacket_StuffingAndPayload(t *testing.T) {
	b := packPacket(testPacket{
		pid:     0x200,
		afc:     uint8(mpegts.AdaptationFieldControlAdaptationAndPayload),
		af:      []byte{0},
		payload: []byte{9, 8, 7},
	})
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, nil, err)
	_, ok := pkt.AdaptationField.(*mpegts.StuffingAdaptationField)
	assert.Equal(t, true, ok)
	assert.Equal(t, mpegts.PacketSize-mpegts.HeaderSize-1, len(pkt.Payload.Data))
	assert.Equal(t, []byte{9, 8, 7}, pkt.Payload.Data[:3])
}

func TestParsePacket_Reserved(t *testing.T) {
	b := packPacket(testPacket{
		pid: 0x300,
		afc: uint8(mpegts.AdaptationFieldControlReserved),
	})
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, pkt.AdaptationField == nil)
	assert.Equal(t, true, pkt.Payload == nil)
}

func TestParsePacket_Error(t *testing.T) {
	b := payloadPacket(0x101, false, 0, nil)
	b[0] = 0x48
	pkt, err := mpegts.ParsePacket(b)
	assert.Equal(t, true, pkt == nil)
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsInvalidFirstByte))

	// adaptation field占满整个packet，没有空间存放payload pointer
	af := make([]byte, mpegts.PacketSize-mpegts.HeaderSize)
	af[0] = byte(len(af) - 1)
	b = packPacket(testPacket{
		pusi: true,
		pid:  0x101,
		afc:  uint8(mpegts.AdaptationFieldControlAdaptationAndPayload),
		af:   af,
	})
	pkt, err = mpegts.ParsePacket(b)
	assert.Equal(t, true, pkt == nil)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))

	// payload pointer超出范围
	b = packPacket(testPacket{
		pusi:    true,
		pid:     0x101,
		afc:     uint8(mpegts.AdaptationFieldControlPayloadOnly),
		payload: []byte{184},
	})
	pkt, err = mpegts.ParsePacket(b)
	assert.Equal(t, true, pkt == nil)
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsInvalidPayloadPointer))

	_, err = mpegts.ParsePacket(b[:100])
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
}

func TestPacket_PayloadData(t *testing.T) {
	pkt, err := mpegts.ParsePacket(payloadPacket(0x101, false, 0, []byte{1, 2, 3}))
	assert.Equal(t, nil, err)
	data, err := pkt.PayloadData()
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte{1, 2, 3}, data[:3])

	af := make([]byte, mpegts.PacketSize-mpegts.HeaderSize)
	af[0] = byte(len(af) - 1)
	pkt, err = mpegts.ParsePacket(packPacket(testPacket{
		pid: 0x100,
		afc: uint8(mpegts.AdaptationFieldControlAdaptationOnly),
		af:  af,
	}))
	assert.Equal(t, nil, err)
	data, err = pkt.PayloadData()
	assert.Equal(t, true, data == nil)
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsNoPayload))
}
