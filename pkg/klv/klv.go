// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package klv

import (
	"bytes"

	"github.com/q191201771/tsanalyzer/pkg/base"
)

// KLV: Key-Length-Value, <SMPTE 336M>

// UasLocalSetKey MISB ST 0601 UAS Datalink Local Set的16字节universal key
var UasLocalSetKey = []byte{
	0x06, 0x0E, 0x2B, 0x34, 0x02, 0x0B, 0x01, 0x01,
	0x0E, 0x01, 0x03, 0x01, 0x01, 0x00, 0x00, 0x00,
}

const KeyLength = 16

// Index 返回 UasLocalSetKey 在 b 中首次出现的位置，不存在时返回-1
//
func Index(b []byte) int {
	return bytes.Index(b, UasLocalSetKey)
}

func Contains(b []byte) bool {
	return Index(b) != -1
}

// ParseBerLength 解析BER编码的长度字段
//
// 短格式: 1字节，最高位为0，低7位为长度
// 长格式: 首字节最高位为1，低7位为后续长度字节的个数
//
// @return length: 长度的值
// @return n:      长度字段自身占用的字节数
//
func ParseBerLength(b []byte) (length int, n int, err error) {
	if len(b) < 1 {
		return 0, 0, base.NewErrShortBuffer(1, len(b), "klv ber length")
	}
	if b[0]&0x80 == 0 {
		return int(b[0]), 1, nil
	}

	num := int(b[0] & 0x7F)
	if num == 0 || num > 4 {
		return 0, 0, base.NewErrKlvInvalidBerLength(b[0])
	}
	if len(b) < 1+num {
		return 0, 0, base.NewErrShortBuffer(1+num, len(b), "klv ber length")
	}
	for i := 1; i <= num; i++ {
		length = length<<8 | int(b[i])
	}
	return length, 1 + num, nil
}

// Packet 在 b 中查找 UasLocalSetKey ，并返回完整的KLV packet
//
// @return pkt: 内存块引用自 b ，value不完整时返回 base.ErrShortBuffer
//
func Packet(b []byte) (pkt []byte, value []byte, err error) {
	index := Index(b)
	if index == -1 {
		return nil, nil, nil
	}

	length, n, err := ParseBerLength(b[index+KeyLength:])
	if err != nil {
		return nil, nil, err
	}
	start := index + KeyLength + n
	if start+length > len(b) {
		return nil, nil, base.NewErrShortBuffer(start+length, len(b), "klv value")
	}
	return b[index : start+length], b[start : start+length], nil
}
