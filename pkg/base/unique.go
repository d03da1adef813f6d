// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/unique"

const (
	UkPreTsReader = "TSREADER"
	UkPreAnalyzer = "ANALYZER"
)

func GenUkTsReader() string {
	return siUkTsReader.GenUniqueKey()
}

func GenUkAnalyzer() string {
	return siUkAnalyzer.GenUniqueKey()
}

var (
	siUkTsReader *unique.SingleGenerator
	siUkAnalyzer *unique.SingleGenerator
)

func init() {
	siUkTsReader = unique.NewSingleGenerator(UkPreTsReader)
	siUkAnalyzer = unique.NewSingleGenerator(UkPreAnalyzer)
}
