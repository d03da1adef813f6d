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

	"github.com/q191201771/tsanalyzer/pkg/base"
)

// InvalidFirstByteError packet的首字节不是 SyncByte
//
// 可以使用 errors.Is(err, base.ErrMpegtsInvalidFirstByte) 判断
//
type InvalidFirstByteError struct {
	Byte uint8
}

func (e *InvalidFirstByteError) Error() string {
	return fmt.Sprintf("%s. byte=0x%02x", base.ErrMpegtsInvalidFirstByte.Error(), e.Byte)
}

func (e *InvalidFirstByteError) Unwrap() error {
	return base.ErrMpegtsInvalidFirstByte
}

// InvalidPayloadPointerError payload pointer超出了packet剩余的字节数
//
// 可以使用 errors.Is(err, base.ErrMpegtsInvalidPayloadPointer) 判断
//
type InvalidPayloadPointerError struct {
	Pointer   uint8
	Remainder int
}

func (e *InvalidPayloadPointerError) Error() string {
	return fmt.Sprintf("%s. pointer=%d, remainder=%d", base.ErrMpegtsInvalidPayloadPointer.Error(), e.Pointer, e.Remainder)
}

func (e *InvalidPayloadPointerError) Unwrap() error {
	return base.ErrMpegtsInvalidPayloadPointer
}
