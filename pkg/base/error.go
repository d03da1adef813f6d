// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrShortBuffer  = errors.New("tsanalyzer: buffer too short")
	ErrFileNotExist = errors.New("tsanalyzer: file not exist")
)

func NewErrShortBuffer(need, actual int, msg string) error {
	return fmt.Errorf("%w. need=%d, actual=%d, msg=%s", ErrShortBuffer, need, actual, msg)
}

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var (
	ErrMpegtsInvalidFirstByte      = errors.New("tsanalyzer.mpegts: invalid first byte for packet")
	ErrMpegtsInvalidPayloadPointer = errors.New("tsanalyzer.mpegts: payload pointer too large for packet remainder")
	ErrMpegtsNoSyncByteFound       = errors.New("tsanalyzer.mpegts: no sync byte found in reader")

	// 下面两个只在内部作为信号使用，不会从Reader的读取流程中返回
	ErrMpegtsNoPayload          = errors.New("tsanalyzer.mpegts: no payload found in packet")
	ErrMpegtsPayloadIsNotStart  = errors.New("tsanalyzer.mpegts: payload does not contain the start of a new payload unit")
	ErrMpegtsReaderNotAvailable = errors.New("tsanalyzer.mpegts: reader source is nil")
)

// ----- pkg/klv -------------------------------------------------------------------------------------------------------

var (
	ErrKlvInvalidBerLength = errors.New("tsanalyzer.klv: invalid ber length")
)

func NewErrKlvInvalidBerLength(b byte) error {
	return fmt.Errorf("%w. b=%d", ErrKlvInvalidBerLength, b)
}

// ----- app -----------------------------------------------------------------------------------------------------------

var (
	ErrConfigInvalid = errors.New("tsanalyzer.app: invalid config")
)

func NewErrConfigInvalid(msg string) error {
	return fmt.Errorf("%w. msg=%s", ErrConfigInvalid, msg)
}
