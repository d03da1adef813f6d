// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tsanalyzer
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// PayloadUnit 由同一个PID的多个packet的payload拼接而成的完整数据
//
type PayloadUnit struct {
	Pid  uint16
	Data []byte
}

// trackedPayload 某个PID上，上一次完整payload unit之后收集到的payload片段
//
// payloads非空时，第一个元素一定是起始payload
//
type trackedPayload struct {
	pid      uint16
	payloads []*Payload
}

func newTrackedPayload(pid uint16) *trackedPayload {
	return &trackedPayload{
		pid: pid,
	}
}

// add
//
// @return data: 有完整的payload unit时返回拼接好的数据，内存块为独立申请
// @return ok:   是否有完整的payload unit
//
func (tp *trackedPayload) add(p *Payload) (data []byte, ok bool) {
	// 还没有起始片段时，非起始片段无所归属，直接丢弃
	if len(tp.payloads) == 0 && !p.IsStart() {
		return nil, false
	}

	tp.payloads = append(tp.payloads, p)

	first, last := -1, -1
	for i, item := range tp.payloads {
		if !item.IsStart() {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == last {
		return nil, false
	}

	startData, _ := tp.payloads[first].StartData()
	size := len(startData)
	for _, item := range tp.payloads[first+1 : last] {
		size += len(item.Data)
	}

	data = make([]byte, 0, size)
	data = append(data, startData...)
	for _, item := range tp.payloads[first+1 : last] {
		data = append(data, item.Data...)
	}

	// 只保留最后一个起始片段，作为下一个payload unit的起点
	tp.payloads = []*Payload{tp.payloads[last]}
	return data, true
}

func (tp *trackedPayload) len() int {
	return len(tp.payloads)
}
