// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/klv"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
	"github.com/q191201771/tsanalyzer/pkg/tsstat"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Filename string
	Task     string

	Packets      uint64
	Pids         []uint16
	PayloadUnits uint64
	KlvPayloads  uint64
	FirstPayload []byte
	DumpFiles    []string

	Err error
}

type Analyzer struct {
	uniqueKey string
	config    *Config
	stat      *tsstat.Stat
}

func NewAnalyzer(config *Config) *Analyzer {
	return &Analyzer{
		uniqueKey: base.GenUkAnalyzer(),
		config:    config,
		stat:      tsstat.NewStat(),
	}
}

func (a *Analyzer) Stat() *tsstat.Stat {
	return a.stat
}

// Run 分析所有匹配 Config.Input 的文件，单个文件的错误记录在对应的 Result.Err 中
//
// 返回的结果与文件名的字典序一致
//
func (a *Analyzer) Run(ctx context.Context) ([]*Result, error) {
	filenames, err := filepath.Glob(a.config.Input)
	if err != nil {
		return nil, base.NewErrConfigInvalid(err.Error())
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("%w. input=%s", base.ErrFileNotExist, a.config.Input)
	}
	sort.Strings(filenames)
	log.Infof("[%s] analyze start. task=%s, files=%d, concurrency=%d", a.uniqueKey, a.config.Task, len(filenames), a.config.Concurrency)

	results := make([]*Result, len(filenames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Concurrency)
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			results[i] = a.analyzeFile(gctx, filename)
			return gctx.Err()
		})
	}
	if err = g.Wait(); err != nil {
		return results, err
	}

	if a.config.MetricsTextfile != "" {
		if err = a.stat.WriteTextfile(a.config.MetricsTextfile); err != nil {
			return results, err
		}
	}
	log.Infof("[%s] analyze done.", a.uniqueKey)
	return results, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, filename string) *Result {
	result := &Result{
		Filename: filename,
		Task:     a.config.Task,
	}

	fp, err := os.Open(filename)
	if err != nil {
		result.Err = err
		return result
	}
	defer fp.Close()

	r, err := mpegts.NewReader(fp, func(option *mpegts.ReaderOption) {
		option.Name = filepath.Base(filename)
		option.TrackedPids = a.config.TrackedPids
	})
	if err != nil {
		a.stat.ObserveError(err)
		result.Err = err
		return result
	}
	r.SetPacketObserver(a.stat.ObservePacket)

	switch a.config.Task {
	case TaskCountPackets:
		err = a.countPackets(ctx, r, result)
	case TaskListPids:
		err = a.listPids(ctx, r, result)
	case TaskCountKlvPayloads:
		err = a.countKlvPayloads(ctx, r, result)
	case TaskFirstPayload:
		err = a.firstPayload(ctx, r, result, false)
	case TaskFirstKlvPayload:
		err = a.firstPayload(ctx, r, result, true)
	case TaskDumpPayloads:
		err = a.dumpPayloads(ctx, r, result)
	}
	if err != nil {
		a.stat.ObserveError(err)
		result.Err = err
	}

	log.Debugf("[%s] file analyzed. file=%s, packets read=%d, err=%v", a.uniqueKey, filename, r.PacketsRead(), err)
	return result
}

func (a *Analyzer) countPackets(ctx context.Context, r *mpegts.Reader, result *Result) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, err := r.NextPacket()
		if err != nil {
			return err
		}
		if pkt == nil {
			return nil
		}
		result.Packets++
	}
}

func (a *Analyzer) listPids(ctx context.Context, r *mpegts.Reader, result *Result) error {
	pids := make(map[uint16]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, err := r.NextPacket()
		if err != nil {
			return err
		}
		if pkt == nil {
			break
		}
		result.Packets++
		pids[pkt.Header.Pid] = struct{}{}
	}

	for pid := range pids {
		result.Pids = append(result.Pids, pid)
	}
	sort.Slice(result.Pids, func(i, j int) bool {
		return result.Pids[i] < result.Pids[j]
	})
	return nil
}

func (a *Analyzer) countKlvPayloads(ctx context.Context, r *mpegts.Reader, result *Result) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		unit, err := r.NextPayloadUnit()
		if err != nil {
			return err
		}
		if unit == nil {
			return nil
		}
		result.PayloadUnits++
		a.stat.ObservePayloadUnit(unit)
		if klv.Contains(unit.Data) {
			result.KlvPayloads++
			a.stat.ObserveKlv()
		}
	}
}

// firstPayload 找到第一个带payload的packet，klvOnly为true时要求payload中包含KLV key
//
func (a *Analyzer) firstPayload(ctx context.Context, r *mpegts.Reader, result *Result, klvOnly bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, err := r.NextPacket()
		if err != nil {
			return err
		}
		if pkt == nil {
			return nil
		}
		result.Packets++
		data, err := pkt.PayloadData()
		if errors.Is(err, base.ErrMpegtsNoPayload) {
			continue
		}
		if klvOnly && !klv.Contains(data) {
			continue
		}
		result.FirstPayload = data
		return nil
	}
}

func (a *Analyzer) dumpPayloads(ctx context.Context, r *mpegts.Reader, result *Result) (err error) {
	if err = os.MkdirAll(a.config.DumpDir, 0755); err != nil {
		return err
	}

	pid2writer := make(map[uint16]*mpegts.FileWriter)
	defer func() {
		for _, fw := range pid2writer {
			if derr := fw.Dispose(); derr != nil && err == nil {
				err = derr
			}
		}
	}()

	prefix := strings.TrimSuffix(filepath.Base(result.Filename), filepath.Ext(result.Filename))
	var unit *mpegts.PayloadUnit
	for {
		if err = ctx.Err(); err != nil {
			return err
		}
		unit, err = r.NextPayloadUnit()
		if err != nil {
			return err
		}
		if unit == nil {
			break
		}
		result.PayloadUnits++
		a.stat.ObservePayloadUnit(unit)

		fw, ok := pid2writer[unit.Pid]
		if !ok {
			fw = &mpegts.FileWriter{}
			name := filepath.Join(a.config.DumpDir, fmt.Sprintf("%s.%d.bin", prefix, unit.Pid))
			if err = fw.Create(name); err != nil {
				return err
			}
			pid2writer[unit.Pid] = fw
			result.DumpFiles = append(result.DumpFiles, name)
		}
		if err = fw.WriteUnit(unit); err != nil {
			return err
		}
	}
	sort.Strings(result.DumpFiles)
	return nil
}
