// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package tsstat

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

var Log = nazalog.GetGlobalLogger()

const (
	ErrorKindInvalidFirstByte      = "invalid_first_byte"
	ErrorKindInvalidPayloadPointer = "invalid_payload_pointer"
	ErrorKindShortBuffer           = "short_buffer"
	ErrorKindNoSyncByteFound       = "no_sync_byte_found"
	ErrorKindOther                 = "other"
)

// Stat 统计读取过程中的packet、payload unit、KLV以及错误个数
//
// 每个Stat持有独立的registry，多个Reader可以共用同一个Stat，协程安全
//
type Stat struct {
	registry *prometheus.Registry

	packets      *prometheus.CounterVec
	payloadUnits *prometheus.CounterVec
	klvPayloads  prometheus.Counter
	errs         *prometheus.CounterVec
}

func NewStat() *Stat {
	s := &Stat{
		registry: prometheus.NewRegistry(),
		packets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsanalyzer_packets_total",
				Help: "Total number of MPEG-TS packets parsed.",
			},
			[]string{"pid"},
		),
		payloadUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsanalyzer_payload_units_total",
				Help: "Total number of reassembled payload units.",
			},
			[]string{"pid"},
		),
		klvPayloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tsanalyzer_klv_payloads_total",
				Help: "Total number of payload units carrying a UAS local set key.",
			},
		),
		errs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsanalyzer_errors_total",
				Help: "Total number of errors returned while reading.",
			},
			[]string{"kind"},
		),
	}
	s.registry.MustRegister(s.packets, s.payloadUnits, s.klvPayloads, s.errs)
	return s
}

// ObservePacket 可直接作为 mpegts.Reader 的 packet observer 使用
//
func (s *Stat) ObservePacket(pkt *mpegts.Packet) {
	if pkt == nil {
		return
	}
	s.packets.WithLabelValues(pidLabel(pkt.Header.Pid)).Inc()
}

func (s *Stat) ObservePayloadUnit(unit *mpegts.PayloadUnit) {
	if unit == nil {
		return
	}
	s.payloadUnits.WithLabelValues(pidLabel(unit.Pid)).Inc()
}

func (s *Stat) ObserveKlv() {
	s.klvPayloads.Inc()
}

func (s *Stat) ObserveError(err error) {
	if err == nil {
		return
	}
	s.errs.WithLabelValues(ErrorKind(err)).Inc()
}

func (s *Stat) Gatherer() prometheus.Gatherer {
	return s.registry
}

// WriteTextfile 按node_exporter textfile collector的格式写入文件
//
func (s *Stat) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, s.registry); err != nil {
		Log.Errorf("write metrics textfile failed. filename=%s, err=%+v", filename, err)
		return err
	}
	return nil
}

func ErrorKind(err error) string {
	switch {
	case errors.Is(err, base.ErrMpegtsInvalidFirstByte):
		return ErrorKindInvalidFirstByte
	case errors.Is(err, base.ErrMpegtsInvalidPayloadPointer):
		return ErrorKindInvalidPayloadPointer
	case errors.Is(err, base.ErrShortBuffer):
		return ErrorKindShortBuffer
	case errors.Is(err, base.ErrMpegtsNoSyncByteFound):
		return ErrorKindNoSyncByteFound
	}
	return ErrorKindOther
}

func pidLabel(pid uint16) string {
	return strconv.Itoa(int(pid))
}
