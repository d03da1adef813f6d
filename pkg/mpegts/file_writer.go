// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"os"

	"github.com/q191201771/tsanalyzer/pkg/base"
)

// FileWriter 将拼接好的payload unit依次写入文件
//
type FileWriter struct {
	fp *os.File

	unitCount uint64
	byteCount uint64
}

func (fw *FileWriter) Create(filename string) (err error) {
	fw.fp, err = os.Create(filename)
	return
}

func (fw *FileWriter) WriteUnit(unit *PayloadUnit) error {
	if unit == nil {
		return nil
	}
	if err := fw.Write(unit.Data); err != nil {
		return err
	}
	fw.unitCount++
	return nil
}

func (fw *FileWriter) Write(b []byte) (err error) {
	if fw.fp == nil {
		return base.ErrFileNotExist
	}
	_, err = fw.fp.Write(b)
	if err == nil {
		fw.byteCount += uint64(len(b))
	}
	return
}

func (fw *FileWriter) Dispose() error {
	if fw.fp == nil {
		return base.ErrFileNotExist
	}
	return fw.fp.Close()
}

func (fw *FileWriter) Name() string {
	if fw.fp == nil {
		return ""
	}
	return fw.fp.Name()
}

func (fw *FileWriter) UnitCount() uint64 {
	return fw.unitCount
}

func (fw *FileWriter) ByteCount() uint64 {
	return fw.byteCount
}
