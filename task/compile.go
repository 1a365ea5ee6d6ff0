package task

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/phase"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/program"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalgroup"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/transition"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
	"golang.org/x/sync/errgroup"
)

// programNode 信号程序模式下未指定AbschaltTeilknoten的信号组所属子节点
const programNode = 1

// CycleResult 单个周期的编译结果
type CycleResult struct {
	Cycle program.Cycle
	TlsID string // 信号灯ID（含子节点后缀）
	Index *signalgroup.Index
	Steps []program.Step
	// Err 编译失败原因，失败不影响其他周期
	Err error
}

// Result 一次编译任务的结果
type Result struct {
	Cycles      []*CycleResult             // 相位列表模式，按周期顺序
	Programs    []*program.CompiledProgram // 信号程序模式，按文档顺序
	Index       *signalgroup.Index         // 信号程序模式使用的信号组索引
	Diagnostics *entity.Diagnostics
}

// Failed 编译失败的周期
func (r *Result) Failed() []*CycleResult {
	return lo.Filter(r.Cycles, func(c *CycleResult, _ int) bool { return c.Err != nil })
}

// Task 编译任务
// 功能：按配置选择相位列表模式或信号程序模式，把一份OCIT文档编译为仿真器相位程序
type Task struct {
	rc      *config.RuntimeConfig
	doc     *ocit.Document
	metrics *Metrics
}

// New 创建编译任务
// 参数：rc-运行时配置，doc-OCIT记录，metrics-编译统计（可为nil）
func New(rc *config.RuntimeConfig, doc *ocit.Document, metrics *Metrics) *Task {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Task{rc: rc, doc: doc, metrics: metrics}
}

// Metrics 编译统计
func (t *Task) Metrics() *Metrics {
	return t.metrics
}

// Run 运行编译任务
// 功能：相位列表模式下各周期并行编译，单个周期失败只记录在其结果中；
// 信号程序模式下全部程序作为一个整体编译，失败时返回错误
// 返回：编译结果，诊断信息按周期顺序合并
func (t *Task) Run(ctx context.Context) (*Result, error) {
	res := &Result{Diagnostics: entity.NewDiagnostics()}
	var err error
	if t.rc.C.UsePrograms {
		err = t.runPrograms(res)
	} else {
		err = t.runCycles(ctx, res)
	}
	t.metrics.ObserveDiagnostics(res.Diagnostics.Items())
	if err != nil {
		res.Diagnostics.LogAll()
		return nil, err
	}
	return res, nil
}

// runCycles 相位列表模式
// 算法说明：
// 1. 按相位编号划分周期，跳过ignore_nodes中的子节点
// 2. 使用errgroup并行编译各周期，每个周期拥有独立的上下文与诊断信息
// 3. 结果与诊断信息按周期顺序收集，保证输出确定
func (t *Task) runCycles(ctx context.Context, res *Result) error {
	cycles, diags := program.BuildCycles(t.doc.PhaseIDs(), t.rc.IgnorePhases)
	res.Diagnostics.Add(diags...)
	cycles = lo.Filter(cycles, func(c program.Cycle, _ int) bool {
		log.Infof("%v", c)
		if _, ok := t.rc.IgnoreNodes[c.NodeIndex]; ok && c.NodeID != "" {
			log.Infof("Skipping NodeID %s", c.NodeID)
			return false
		}
		return true
	})

	results := make([]*CycleResult, len(cycles))
	contexts := make([]*Context, len(cycles))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range cycles {
		i, c := i, c
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			contexts[i] = NewContext(t.rc)
			start := time.Now()
			results[i] = t.compileCycle(contexts[i], c)
			t.metrics.duration.Observe(time.Since(start).Seconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, r := range results {
		res.Diagnostics.Merge(contexts[i].Diagnostics())
		if r.Err != nil {
			t.metrics.cycles.WithLabelValues("failed").Inc()
			log.Errorf("cycle %v failed: %v", r.Cycle.Phases, r.Err)
			continue
		}
		t.metrics.cycles.WithLabelValues("ok").Inc()
		t.metrics.steps.Add(float64(len(r.Steps)))
	}
	res.Cycles = results
	return nil
}

// compileCycle 编译单个周期
// 算法说明：
// 1. 构建信号组索引（默认子节点为周期的子节点编号）与相位稳态灯色
// 2. 合成过渡，依次进行主/次绿灯修正、插入黄灯与红黄、游程压缩
// 3. 按周期顺序装配相位程序，需要时回放校验
func (t *Task) compileCycle(ctx *Context, c program.Cycle) *CycleResult {
	rc := t.rc
	res := &CycleResult{Cycle: c, TlsID: rc.C.TlsID + c.NodeID}

	idx, diags := signalgroup.Build(t.doc.SignalGroups, c.NodeIndex)
	ctx.Diagnostics().Add(diags...)
	res.Index = idx
	if rc.C.Verbose {
		idx.LogDump()
	}

	phases, err := phase.Build(ctx, t.doc.Phases, c.Phases, idx)
	if err != nil {
		res.Err = err
		return res
	}
	trs, err := transition.Synthesize(ctx, t.doc.Transitions, phases, idx)
	if err != nil {
		res.Err = err
		return res
	}
	t.metrics.transitions.Add(float64(len(trs)))

	finals := make([]timeline.Timeline, len(trs))
	timed := make([]program.Timed, len(trs))
	for k, tr := range trs {
		from, to := phases[tr.From].State, phases[tr.To].State
		corrected, corrections := transition.Correct(tr.Ticks, from, to)
		for _, corr := range corrections {
			log.Infof("corrected inconsistent state in transition '%s' index %d times %v", tr.ID, corr.Index, corr.Ticks)
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagMinorGreenCorrected,
				Record: tr.ID,
				Reason: fmt.Sprintf("index %d ticks %v", corr.Index, corr.Ticks),
			})
		}
		t.metrics.corrections.Add(float64(len(corrections)))

		clr := transition.InsertClearance(corrected, from, to, idx.Yellow, idx.RedYellow)
		for _, i := range clr.Unsupported {
			log.Debugf("transition '%s' index %d: red-yellow duration %d not inserted", tr.ID, i, idx.RedYellow(i))
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagUnsupportedRedYellow,
				Record: tr.ID,
				Reason: fmt.Sprintf("index %d red-yellow %d", i, idx.RedYellow(i)),
			})
		}
		if rc.C.Verbose {
			log.Debugf("%s", tr.ID)
			log.Debugf("  %s (before)", from)
			for tick, s := range clr.Ticks {
				log.Debugf("%d %s", tick, s)
			}
			log.Debugf("  %s (after)", to)
		}
		finals[k] = clr.Ticks
		timed[k] = program.Timed{ID: tr.ID, From: tr.From, To: tr.To, Runs: timeline.Compact(clr.Ticks)}
	}

	states := lo.MapValues(phases, func(p *phase.Phase, _ string) timeline.State { return p.State })
	asm := program.AssemblePhases(c, states, timed, rc.C.MinDuration)
	res.Steps = asm.Steps
	if rc.C.Verify {
		if err := verifyCycle(ctx, asm, trs, finals); err != nil {
			res.Err = err
		}
	}
	return res
}

// runPrograms 信号程序模式
// 说明：全部信号组默认属于子节点1，属于ignore_nodes的信号组被排除
func (t *Task) runPrograms(res *Result) error {
	ctx := NewContext(t.rc)
	all, diags := signalgroup.Build(t.doc.SignalGroups, programNode)
	ctx.Diagnostics().Add(diags...)
	idx := all.Subset(func(id string) bool {
		node, _ := all.Node(id)
		_, ignored := t.rc.IgnoreNodes[node]
		return !ignored
	})
	if t.rc.C.Verbose {
		idx.LogDump()
	}
	programs, err := program.CompilePrograms(ctx, t.doc.Programs, idx)
	if err == nil && t.rc.C.Verify {
		err = verifyPrograms(ctx, programs)
	}
	res.Diagnostics.Merge(ctx.Diagnostics())
	if err != nil {
		return err
	}
	for _, p := range programs {
		t.metrics.programs.Inc()
		t.metrics.steps.Add(float64(len(p.Steps)))
	}
	res.Programs = programs
	res.Index = idx
	return nil
}
