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

// Payload 单个packet中的payload
//
// PUSI为1时，payload的首字节为payload pointer，表示新的payload unit在 Data 中的起始位置，
// Data 中不包含该字节
//
type Payload struct {
	Data []byte // 内存块为独立申请
	Cc   uint8  // 来自所属packet header的continuity_counter

	startIndex uint8
	isStart    bool
}

// ParsePayload
//
// @param b:        header以及adaptation field之后剩余的字节
// @param consumed: packet中 b 之前已经使用了的字节数
//
func ParsePayload(b []byte, pusi bool, cc uint8, consumed int) (*Payload, error) {
	p := &Payload{
		Cc: cc,
	}

	if !pusi {
		p.Data = make([]byte, len(b))
		copy(p.Data, b)
		return p, nil
	}

	if len(b) < 1 {
		return nil, base.NewErrShortBuffer(1, len(b), "payload pointer")
	}

	pointer := b[0]
	remainder := PacketSize - consumed - 1
	if int(pointer) > remainder {
		return nil, &InvalidPayloadPointerError{Pointer: pointer, Remainder: remainder}
	}

	p.isStart = true
	p.startIndex = pointer
	p.Data = make([]byte, len(b)-1)
	copy(p.Data, b[1:])
	return p, nil
}

// IsStart 是否包含一个新payload unit的起始位置
//
func (p *Payload) IsStart() bool {
	return p.isStart
}

// StartIndex 新payload unit在 Data 中的起始位置，不是起始payload时 ok 为false
//
func (p *Payload) StartIndex() (index uint8, ok bool) {
	return p.startIndex, p.isStart
}

// StartData 从新payload unit起始位置开始的数据
//
// 不是起始payload时返回 base.ErrMpegtsPayloadIsNotStart
//
// @return 内存块引用自 Data
//
func (p *Payload) StartData() ([]byte, error) {
	if !p.isStart {
		return nil, base.ErrMpegtsPayloadIsNotStart
	}
	return p.Data[p.clampedStartIndex():], nil
}

// HeadData 新payload unit起始位置之前的数据，属于上一个payload unit的尾部
//
// 不是起始payload时，返回整个 Data
//
func (p *Payload) HeadData() []byte {
	if !p.isStart {
		return p.Data
	}
	return p.Data[:p.clampedStartIndex()]
}

func (p *Payload) clampedStartIndex() int {
	if int(p.startIndex) > len(p.Data) {
		return len(p.Data)
	}
	return int(p.startIndex)
}
