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

	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

// MPEG: Moving Picture Experts Group

// <iso13818-1.pdf> <2.4.3.2> <page 36/174>
const (
	PacketSize = 188
	SyncByte   = uint8(0x47)
	HeaderSize = 4

	// PCR和OPCR字段都是6字节
	PcrSize = 6

	SpliceCountdownSize            = 1
	TransportPrivateDataLengthSize = 1

	MaxPid = uint16(0x1FFF)
)

// TransportScramblingControl
//
// <iso13818-1.pdf> <Table 2-4> <page 38/174>
//
type TransportScramblingControl uint8

const (
	ScramblingControlNo       TransportScramblingControl = 0
	ScramblingControlReserved TransportScramblingControl = 1
	ScramblingControlEvenKey  TransportScramblingControl = 2
	ScramblingControlOddKey   TransportScramblingControl = 3
)

func (tsc TransportScramblingControl) String() string {
	switch tsc {
	case ScramblingControlNo:
		return "NoScrambling"
	case ScramblingControlReserved:
		return "Reserved"
	case ScramblingControlEvenKey:
		return "EvenKey"
	case ScramblingControlOddKey:
		return "OddKey"
	}
	return fmt.Sprintf("TransportScramblingControl(%d)", uint8(tsc))
}

// AdaptationFieldControl
//
// <iso13818-1.pdf> <Table 2-5> <page 38/174>
// 0是保留值，但是并不认为是错误，此时packet既没有adaptation field，也没有payload
//
type AdaptationFieldControl uint8

const (
	AdaptationFieldControlReserved             AdaptationFieldControl = 0
	AdaptationFieldControlPayloadOnly          AdaptationFieldControl = 1
	AdaptationFieldControlAdaptationOnly       AdaptationFieldControl = 2
	AdaptationFieldControlAdaptationAndPayload AdaptationFieldControl = 3
)

func (afc AdaptationFieldControl) HasAdaptationField() bool {
	return afc&0x2 != 0
}

func (afc AdaptationFieldControl) HasPayload() bool {
	return afc&0x1 != 0
}

func (afc AdaptationFieldControl) String() string {
	switch afc {
	case AdaptationFieldControlReserved:
		return "Reserved"
	case AdaptationFieldControlPayloadOnly:
		return "PayloadOnly"
	case AdaptationFieldControlAdaptationOnly:
		return "AdaptationFieldOnly"
	case AdaptationFieldControlAdaptationAndPayload:
		return "AdaptationFieldAndPayload"
	}
	return fmt.Sprintf("AdaptationFieldControl(%d)", uint8(afc))
}
