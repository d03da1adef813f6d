// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"bufio"
	"encoding/hex"
	"io"
	"sort"

	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/tsanalyzer/pkg/base"
)

type ReaderOption struct {
	// Name 用于日志，为空时自动生成
	Name string

	// TrackedPids 只返回这些PID的packet，为空时返回所有PID
	TrackedPids []uint16

	// DebugDumpPacketMaxNum debug日志级别时，最多打印多少个packet的内容
	DebugDumpPacketMaxNum int
}

var defaultReaderOption = ReaderOption{
	DebugDumpPacketMaxNum: 16,
}

type ModReaderOption func(option *ReaderOption)

// Reader 从可seek的字节流中按188字节对齐读取TS packet，并按PID拼接payload
//
// 注意，非协程安全，每次调用都会修改读取位置以及各PID的payload缓存
//
type Reader struct {
	option ReaderOption

	rs io.ReadSeeker
	br *bufio.Reader

	syncAlignment int64
	packetsRead   uint64

	trackedPids map[uint16]struct{}
	pid2payload map[uint16]*trackedPayload

	observer func(pkt *Packet)
	logDump  base.LogDump

	frame [PacketSize]byte
}

// NewReader 查找首个SYNC字节确定packet的对齐位置
//
// 找不到时返回 base.ErrMpegtsNoSyncByteFound
//
func NewReader(rs io.ReadSeeker, modOptions ...ModReaderOption) (*Reader, error) {
	if rs == nil {
		return nil, base.ErrMpegtsReaderNotAvailable
	}

	opt := defaultReaderOption
	for _, fn := range modOptions {
		fn(&opt)
	}
	if opt.Name == "" {
		opt.Name = base.GenUkTsReader()
	}

	r := &Reader{
		option:      opt,
		rs:          rs,
		br:          bufio.NewReaderSize(rs, PacketSize*64),
		trackedPids: make(map[uint16]struct{}),
		pid2payload: make(map[uint16]*trackedPayload),
		logDump:     base.NewLogDump(Log, opt.DebugDumpPacketMaxNum),
	}
	for _, pid := range opt.TrackedPids {
		r.trackedPids[pid] = struct{}{}
	}

	alignment, err := r.findSync()
	if err != nil {
		return nil, err
	}
	r.syncAlignment = alignment
	Log.Infof("[%s] sync byte found. alignment=%d", r.option.Name, alignment)

	return r, nil
}

// NextPacket
//
// @return pkt: 读到流结尾时返回(nil, nil)，流结尾之后继续调用依然返回(nil, nil)
//
// 设置了 TrackedPids 时，不在其中的packet会被跳过
//
func (r *Reader) NextPacket() (*Packet, error) {
	for {
		_, err := io.ReadFull(r.br, r.frame[:])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil
		}
		if err != nil {
			return nil, nazaerrors.Wrap(err)
		}
		r.packetsRead++

		pkt, err := ParsePacket(r.frame[:])
		if err != nil {
			Log.Warnf("[%s] parse packet failed. index=%d, err=%+v, frame=%s",
				r.option.Name, r.packetsRead-1, err, hex.Dump(nazabytes.Prefix(r.frame[:], 32)))
			return nil, err
		}

		if !r.isTracked(pkt.Header.Pid) {
			continue
		}

		if r.logDump.ShouldDump() {
			r.logDump.Outf("[%s] read packet. index=%d, header=%s, frame=%s",
				r.option.Name, r.packetsRead-1, pkt.Header.String(), hex.Dump(nazabytes.Prefix(r.frame[:], 32)))
		}

		if r.observer != nil {
			r.observer(pkt)
		}
		return pkt, nil
	}
}

// NextPacketUnchecked 同 NextPacket ，发生错误时返回nil
//
func (r *Reader) NextPacketUnchecked() *Packet {
	pkt, err := r.NextPacket()
	if err != nil {
		return nil
	}
	return pkt
}

// NextPayloadUnit 读取packet，直到某个PID上拼接出一个完整的payload unit
//
// @return unit: 读到流结尾时返回(nil, nil)
//
func (r *Reader) NextPayloadUnit() (*PayloadUnit, error) {
	for {
		pkt, err := r.NextPacket()
		if err != nil {
			return nil, err
		}
		if pkt == nil {
			return nil, nil
		}
		if pkt.Payload == nil {
			continue
		}

		pid := pkt.Header.Pid
		tp, ok := r.pid2payload[pid]
		if !ok {
			if !pkt.Payload.IsStart() {
				continue
			}
			tp = newTrackedPayload(pid)
			r.pid2payload[pid] = tp
		}

		if data, ok := tp.add(pkt.Payload); ok {
			return &PayloadUnit{
				Pid:  tp.pid,
				Data: data,
			}, nil
		}
	}
}

// NextPayload 同 NextPayloadUnit ，只返回数据
//
func (r *Reader) NextPayload() ([]byte, error) {
	unit, err := r.NextPayloadUnit()
	if err != nil || unit == nil {
		return nil, err
	}
	return unit.Data, nil
}

// NextPayloadUnchecked 同 NextPayload ，发生错误时返回nil
//
func (r *Reader) NextPayloadUnchecked() []byte {
	data, err := r.NextPayload()
	if err != nil {
		return nil
	}
	return data
}

func (r *Reader) AddTrackedPid(pid uint16) {
	r.trackedPids[pid] = struct{}{}
}

func (r *Reader) RemoveTrackedPid(pid uint16) {
	delete(r.trackedPids, pid)
}

// TrackedPids 按从小到大排序
//
func (r *Reader) TrackedPids() []uint16 {
	ret := make([]uint16, 0, len(r.trackedPids))
	for pid := range r.trackedPids {
		ret = append(ret, pid)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}

// SetPacketObserver 每个返回给调用方的packet都会先回调 observer ，nil表示取消
//
func (r *Reader) SetPacketObserver(observer func(pkt *Packet)) {
	r.observer = observer
}

// SyncByteAlignment 首个SYNC字节在流中的位置
//
func (r *Reader) SyncByteAlignment() int64 {
	return r.syncAlignment
}

// PacketsRead 已经读取的188字节帧的数量，包括被PID过滤掉的
//
func (r *Reader) PacketsRead() uint64 {
	return r.packetsRead
}

func (r *Reader) Name() string {
	return r.option.Name
}

func (r *Reader) isTracked(pid uint16) bool {
	if len(r.trackedPids) == 0 {
		return true
	}
	_, ok := r.trackedPids[pid]
	return ok
}

// findSync 逐字节查找SYNC字节，并检查一个packet之后的位置是否也是SYNC字节
//
// 注意，如果payload中恰好有0x47，并且188字节之后也恰好是0x47，会被误认为是对齐位置，这种情况不做处理
//
func (r *Reader) findSync() (int64, error) {
	pos, err := r.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, nazaerrors.Wrap(err)
	}
	r.br.Reset(r.rs)

	var one [1]byte
	for {
		b, err := r.br.ReadByte()
		if err == io.EOF {
			return 0, base.ErrMpegtsNoSyncByteFound
		}
		if err != nil {
			return 0, nazaerrors.Wrap(err)
		}
		candidate := pos
		pos++

		if b != SyncByte {
			continue
		}

		if _, err = r.rs.Seek(candidate+PacketSize, io.SeekStart); err != nil {
			return 0, nazaerrors.Wrap(err)
		}
		_, err = io.ReadFull(r.rs, one[:])
		if err == io.EOF {
			// 数据不够一个packet，没法确认
			return 0, base.ErrMpegtsNoSyncByteFound
		}
		if err != nil {
			return 0, nazaerrors.Wrap(err)
		}

		if one[0] == SyncByte {
			if _, err = r.rs.Seek(candidate, io.SeekStart); err != nil {
				return 0, nazaerrors.Wrap(err)
			}
			r.br.Reset(r.rs)
			return candidate, nil
		}

		Log.Debugf("[%s] sync byte candidate rejected. pos=%d, next=0x%02x", r.option.Name, candidate, one[0])

		// 从候选位置的下一个字节继续查找
		if _, err = r.rs.Seek(pos, io.SeekStart); err != nil {
			return 0, nazaerrors.Wrap(err)
		}
		r.br.Reset(r.rs)
	}
}
