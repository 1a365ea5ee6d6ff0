package entity

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DiagnosticKind 被跳过或被修正的记录类型
type DiagnosticKind string

const (
	DiagMalformedSignalGroup DiagnosticKind = "malformed_signal_group" // 信号组缺少可解析的link index备注
	DiagUntaggedPhase        DiagnosticKind = "untagged_phase"         // 相位ID中没有数字编号
	DiagMissingEndpoint      DiagnosticKind = "transition_missing_end" // 过渡缺少起止相位
	DiagUnknownEndpoint      DiagnosticKind = "transition_unknown_end" // 过渡的起止相位不在当前周期
	DiagSwitchOutOfRange     DiagnosticKind = "switch_out_of_range"    // 切换时刻为负数，按0处理
	DiagUnsupportedRedYellow DiagnosticKind = "unsupported_red_yellow" // 红黄时长不为1，未插入红黄
	DiagUnknownProgramGroup  DiagnosticKind = "program_unknown_group"  // 信号程序行引用了未知信号组
	DiagMinorGreenCorrected  DiagnosticKind = "minor_green_corrected"  // 过渡中主绿灯被降级为次绿灯
	DiagVerificationMismatch DiagnosticKind = "verification_mismatch"  // 回放结果与逐tick时间线不一致
)

// Diagnostic 单条诊断信息
type Diagnostic struct {
	Kind   DiagnosticKind
	Record string // 相关记录ID
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%s): %s", d.Kind, d.Record, d.Reason)
}

// Diagnostics 诊断信息收集器
// 功能：收集编译过程中被跳过/修正的记录，最后按类型汇总输出
// 说明：使用互斥锁保护并发写入
type Diagnostics struct {
	mtx   sync.Mutex
	items []Diagnostic
}

// NewDiagnostics 创建诊断信息收集器
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// Add 记录诊断信息
func (d *Diagnostics) Add(items ...Diagnostic) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.items = append(d.items, items...)
}

// Merge 按顺序合并另一个收集器的全部诊断信息
func (d *Diagnostics) Merge(other *Diagnostics) {
	d.Add(other.Items()...)
}

// Items 返回全部诊断信息的副本
func (d *Diagnostics) Items() []Diagnostic {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	res := make([]Diagnostic, len(d.items))
	copy(res, d.items)
	return res
}

// Count 统计指定类型的诊断数量
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	n := 0
	for _, item := range d.items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// LogAll 按类型汇总输出诊断信息
// 功能：每种类型输出一行，包含出现次数和最多3个示例记录
// 说明：类型按字典序输出，保证日志顺序稳定
func (d *Diagnostics) LogAll() {
	items := d.Items()
	if len(items) == 0 {
		return
	}
	counts := make(map[DiagnosticKind]int)
	examples := make(map[DiagnosticKind][]string)
	for _, item := range items {
		counts[item.Kind]++
		if len(examples[item.Kind]) < 3 {
			examples[item.Kind] = append(examples[item.Kind], item.Record)
		}
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		kind := DiagnosticKind(k)
		log.Warnf("%s: %d occurrences, e.g. %s", kind, counts[kind], strings.Join(examples[kind], ", "))
	}
}
