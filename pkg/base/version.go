// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// 版本信息相关
// 一部分版本信息使用了naza.bininfo，另外一些信息由本文件提供

// 版本，该变量由外部脚本修改维护
const TsAnalyzerVersion = "v0.1.0"

var (
	TsAnalyzerLibraryName = "tsanalyzer"
	TsAnalyzerGithubRepo  = "github.com/q191201771/tsanalyzer"

	// e.g. tsanalyzer v0.1.0 (github.com/q191201771/tsanalyzer)
	TsAnalyzerFullInfo = TsAnalyzerLibraryName + " " + TsAnalyzerVersion + " (" + TsAnalyzerGithubRepo + ")"
)
