// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/q191201771/naza/pkg/nazajson"
	log "github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsanalyzer/pkg/base"
	"github.com/q191201771/tsanalyzer/pkg/mpegts"
)

const (
	TaskCountPackets     = "count_packets"
	TaskListPids         = "list_pids"
	TaskCountKlvPayloads = "count_klv_payloads"
	TaskFirstPayload     = "first_payload"
	TaskFirstKlvPayload  = "first_klv_payload"
	TaskDumpPayloads     = "dump_payloads"
)

type Config struct {
	Log log.Option `json:"log"`

	// Input 待分析的TS文件，支持glob，比如 ./testdata/*.ts
	Input string `json:"input"`

	Task        string   `json:"task"`
	TrackedPids []uint16 `json:"tracked_pids"`
	Concurrency int      `json:"concurrency"`

	// DumpDir 只在 dump_payloads 任务时使用，每个PID的payload unit写入一个文件
	DumpDir string `json:"dump_dir"`

	// MetricsTextfile 不为空时，分析结束后将统计信息写入该文件
	MetricsTextfile string `json:"metrics_textfile"`
}

func LoadConf(confFile string) (*Config, error) {
	rawContent, err := os.ReadFile(confFile)
	if err != nil {
		return nil, err
	}
	return ParseConf(rawContent)
}

func ParseConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, err
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, err
	}

	// 检查配置必须项
	if config.Input == "" {
		return nil, base.NewErrConfigInvalid("input is empty")
	}
	for _, pid := range config.TrackedPids {
		if pid > mpegts.MaxPid {
			return nil, base.NewErrConfigInvalid(fmt.Sprintf("tracked pid out of range. pid=%d", pid))
		}
	}

	// 配置不存在时，设置默认值
	if !j.Exist("task") {
		config.Task = TaskCountPackets
	}
	if !j.Exist("concurrency") {
		config.Concurrency = 1
	}
	if !j.Exist("dump_dir") {
		config.DumpDir = "./dump"
	}
	if !j.Exist("log.level") {
		config.Log.Level = log.LevelInfo
	}
	if !j.Exist("log.filename") {
		config.Log.Filename = "./logs/tsanalyzer.log"
	}
	if !j.Exist("log.is_to_stdout") {
		config.Log.IsToStdout = true
	}
	if !j.Exist("log.is_rotate_daily") {
		config.Log.IsRotateDaily = true
	}
	if !j.Exist("log.short_file_flag") {
		config.Log.ShortFileFlag = true
	}
	if !j.Exist("log.assert_behavior") {
		config.Log.AssertBehavior = log.AssertError
	}

	switch config.Task {
	case TaskCountPackets, TaskListPids, TaskCountKlvPayloads, TaskFirstPayload, TaskFirstKlvPayload, TaskDumpPayloads:
	default:
		return nil, base.NewErrConfigInvalid(fmt.Sprintf("unknown task. task=%s", config.Task))
	}
	if config.Concurrency < 1 {
		return nil, base.NewErrConfigInvalid(fmt.Sprintf("concurrency must be positive. concurrency=%d", config.Concurrency))
	}

	return &config, nil
}
