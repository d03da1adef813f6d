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
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazabytes"
	log "github.com/q191201771/naza/pkg/nazalog"
)

func main() {
	defer log.Sync()

	confFile := parseFlag()
	config := loadConf(confFile)
	initLog(config.Log)
	log.Infof("bininfo: %s", bininfo.StringifySingleLine())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results, err := NewAnalyzer(config).Run(ctx)
	if err != nil {
		log.Errorf("analyze failed. err=%+v", err)
		os.Exit(1)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
		report(result)
	}
	if failed > 0 {
		log.Warnf("analyze finished with failures. failed=%d, total=%d", failed, len(results))
		log.Sync()
		os.Exit(1)
	}
}

func report(result *Result) {
	if result.Err != nil {
		log.Errorf("file=%s, task=%s, err=%+v", result.Filename, result.Task, result.Err)
		return
	}

	switch result.Task {
	case TaskCountPackets:
		log.Infof("file=%s, packets=%d", result.Filename, result.Packets)
	case TaskListPids:
		log.Infof("file=%s, packets=%d, pids=%v", result.Filename, result.Packets, result.Pids)
	case TaskCountKlvPayloads:
		log.Infof("file=%s, payload units=%d, klv payloads=%d", result.Filename, result.PayloadUnits, result.KlvPayloads)
	case TaskFirstPayload, TaskFirstKlvPayload:
		if result.FirstPayload == nil {
			log.Infof("file=%s, no payload found. packets=%d", result.Filename, result.Packets)
			return
		}
		log.Infof("file=%s, payload bytes=%d\n%s", result.Filename, len(result.FirstPayload), hex.Dump(nazabytes.Prefix(result.FirstPayload, 188)))
	case TaskDumpPayloads:
		log.Infof("file=%s, payload units=%d, dump files=%v", result.Filename, result.PayloadUnits, result.DumpFiles)
	}
}

func parseFlag() string {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	cf := flag.String("c", "", "specify conf file")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		os.Exit(0)
	}
	if *cf == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  ./bin/tsanalyzer -c ./conf/tsanalyzer.conf.json
`)
		os.Exit(1)
	}
	return *cf
}

func loadConf(confFile string) *Config {
	config, err := LoadConf(confFile)
	if err != nil {
		log.Errorf("load conf failed. file=%s err=%+v", confFile, err)
		os.Exit(1)
	}
	log.Infof("load conf file succ. file=%s content=%+v", confFile, config)
	return config
}

func initLog(opt log.Option) {
	if err := log.Init(func(option *log.Option) {
		*option = opt
	}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "initial log failed. err=%+v\n", err)
		os.Exit(1)
	}
	log.Info("initial log succ.")
}
