// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ts "github.com/asticode/go-astits"
	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/klv"
)

const (
	testVideoPid = uint16(256)
	testKlvPid   = uint16(258)
)

// writeTestStream 生成一路视频和一路KLV，每路n个PES
func writeTestStream(t *testing.T, filename string, n int) {
	var buf bytes.Buffer
	mx := ts.NewMuxer(context.Background(), &buf)
	assert.Equal(t, nil, mx.AddElementaryStream(ts.PMTElementaryStream{
		ElementaryPID: testVideoPid,
		StreamType:    ts.StreamTypeH264Video,
	}))
	assert.Equal(t, nil, mx.AddElementaryStream(ts.PMTElementaryStream{
		ElementaryPID: testKlvPid,
		StreamType:    ts.StreamType(0x15),
	}))
	mx.SetPCRPID(testVideoPid)

	klvData := append([]byte{}, klv.UasLocalSetKey...)
	klvData = append(klvData, 0x04, 0x02, 0x08, 0x00, 0x01)

	for i := 0; i < n; i++ {
		pts := &ts.ClockReference{Base: int64(i) * 3600}
		_, err := mx.WriteData(&ts.MuxerData{
			PID:             testVideoPid,
			AdaptationField: &ts.PacketAdaptationField{RandomAccessIndicator: i == 0},
			PES: &ts.PESData{
				Header: &ts.PESHeader{
					OptionalHeader: &ts.PESOptionalHeader{MarkerBits: 2, PTSDTSIndicator: ts.PTSDTSIndicatorOnlyPTS, PTS: pts},
					StreamID:       0xe0,
				},
				Data: bytes.Repeat([]byte{byte(i)}, 400),
			},
		})
		assert.Equal(t, nil, err)

		_, err = mx.WriteData(&ts.MuxerData{
			PID: testKlvPid,
			PES: &ts.PESData{
				Header: &ts.PESHeader{
					OptionalHeader: &ts.PESOptionalHeader{MarkerBits: 2, PTSDTSIndicator: ts.PTSDTSIndicatorOnlyPTS, PTS: pts},
					StreamID:       0xfc,
				},
				Data: klvData,
			},
		})
		assert.Equal(t, nil, err)
	}

	assert.Equal(t, nil, os.WriteFile(filename, buf.Bytes(), 0644))
}

func newTestConfig(t *testing.T, task string) (*Config, string) {
	dir := t.TempDir()
	writeTestStream(t, filepath.Join(dir, "a.ts"), 5)
	writeTestStream(t, filepath.Join(dir, "b.ts"), 3)
	return &Config{
		Input:       filepath.Join(dir, "*.ts"),
		Task:        task,
		Concurrency: 2,
		DumpDir:     filepath.Join(dir, "dump"),
	}, dir
}

func TestAnalyzer_CountPackets(t *testing.T) {
	config, dir := newTestConfig(t, TaskCountPackets)
	results, err := NewAnalyzer(config).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, filepath.Join(dir, "a.ts"), results[0].Filename)

	for _, result := range results {
		assert.Equal(t, nil, result.Err)
		fi, err := os.Stat(result.Filename)
		assert.Equal(t, nil, err)
		assert.Equal(t, uint64(fi.Size()/188), result.Packets)
	}
}

func TestAnalyzer_ListPids(t *testing.T) {
	config, _ := newTestConfig(t, TaskListPids)
	results, err := NewAnalyzer(config).Run(context.Background())
	assert.Equal(t, nil, err)
	for _, result := range results {
		assert.Equal(t, nil, result.Err)
		assert.Equal(t, uint16(0), result.Pids[0])
		assert.Equal(t, true, containsPid(result.Pids, testVideoPid))
		assert.Equal(t, true, containsPid(result.Pids, testKlvPid))
		for i := 1; i < len(result.Pids); i++ {
			assert.Equal(t, true, result.Pids[i-1] < result.Pids[i])
		}
	}
}

func TestAnalyzer_CountKlvPayloads(t *testing.T) {
	config, _ := newTestConfig(t, TaskCountKlvPayloads)
	config.TrackedPids = []uint16{testKlvPid}
	config.MetricsTextfile = filepath.Join(t.TempDir(), "tsanalyzer.prom")

	a := NewAnalyzer(config)
	results, err := a.Run(context.Background())
	assert.Equal(t, nil, err)
	// 每个PID最后一个PES没有后续起始packet，不会被输出
	assert.Equal(t, uint64(4), results[0].KlvPayloads)
	assert.Equal(t, uint64(4), results[0].PayloadUnits)
	assert.Equal(t, uint64(2), results[1].KlvPayloads)

	b, err := os.ReadFile(config.MetricsTextfile)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, bytes.Contains(b, []byte("tsanalyzer_klv_payloads_total 6")))
}

func TestAnalyzer_FirstPayload(t *testing.T) {
	config, _ := newTestConfig(t, TaskFirstPayload)
	results, err := NewAnalyzer(config).Run(context.Background())
	assert.Equal(t, nil, err)
	// 第一个带payload的packet是PAT，table_id为0
	assert.Equal(t, true, len(results[0].FirstPayload) > 0)
	assert.Equal(t, uint8(0), results[0].FirstPayload[0])

	config.Task = TaskFirstKlvPayload
	results, err = NewAnalyzer(config).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, true, klv.Contains(results[0].FirstPayload))
}

func TestAnalyzer_DumpPayloads(t *testing.T) {
	config, _ := newTestConfig(t, TaskDumpPayloads)
	config.Input = filepath.Join(filepath.Dir(config.Input), "a.ts")
	config.TrackedPids = []uint16{testVideoPid}
	results, err := NewAnalyzer(config).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(results))
	assert.Equal(t, nil, results[0].Err)
	assert.Equal(t, []string{filepath.Join(config.DumpDir, "a.256.bin")}, results[0].DumpFiles)

	b, err := os.ReadFile(results[0].DumpFiles[0])
	assert.Equal(t, nil, err)
	// 首个unit以 00 01 E0 开始，并包含第0帧的数据
	assert.Equal(t, []byte{0x00, 0x01, 0xE0}, b[:3])
	assert.Equal(t, true, bytes.Contains(b, bytes.Repeat([]byte{0}, 400)))
}

func TestAnalyzer_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewAnalyzer(&Config{Input: filepath.Join(dir, "*.ts"), Task: TaskCountPackets, Concurrency: 1}).Run(context.Background())
	assert.Equal(t, true, errors.Is(err, base.ErrFileNotExist))

	assert.Equal(t, nil, os.WriteFile(filepath.Join(dir, "bad.ts"), bytes.Repeat([]byte{0x00}, 188*3), 0644))
	results, err := NewAnalyzer(&Config{Input: filepath.Join(dir, "*.ts"), Task: TaskCountPackets, Concurrency: 1}).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, true, errors.Is(results[0].Err, base.ErrMpegtsNoSyncByteFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	config, _ := newTestConfig(t, TaskCountPackets)
	_, err = NewAnalyzer(config).Run(ctx)
	assert.Equal(t, true, errors.Is(err, context.Canceled))
}

func containsPid(pids []uint16, pid uint16) bool {
	for _, item := range pids {
		if item == pid {
			return true
		}
	}
	return false
}
