// 相位过渡的逐tick灯色合成、一致性修正与过渡灯色插入
package transition

import (
	"fmt"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/phase"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalgroup"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

// Key 过渡的唯一标识
type Key struct {
	ID   string
	From string
	To   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%s->%s)", k.ID, k.From, k.To)
}

// Transition 合成后的相位过渡
type Transition struct {
	Key
	Duration int             // 过渡时长（tick），至少为1
	Complex  *timeline.Arena // 未归约的逐tick复合灯色
	Ticks    timeline.Timeline
}

// Synthesize 合成周期内全部相位过渡的逐tick灯色
// 功能：以起始相位归约后的灯色为种子复制到每个tick，再按切换元素依次覆盖
// 参数：ctx-任务上下文，records-过渡记录（文档顺序），phases-当前周期已构建的相位，idx-信号组索引
// 返回：按文档顺序排列的过渡；遇到未知灯色或无法归约的复合灯色时返回错误
// 算法说明：
// 1. 缺少起止相位，或起止相位不在当前周期的过渡被跳过
// 2. 种子：非闪光信号组的槽位在整体归约结果为'g'且原字母为'G'时改为'g'，闪光信号组保持原字母
// 3. 每个切换元素先把起始灯色写入全部tick，再按切换事件的顺序从切换时刻覆盖到过渡结束
// 4. 每个tick归一化为灯色向量
// 说明：同一(ID, From, To)出现多次时保留最后一次的内容，位置按第一次出现
func Synthesize(ctx entity.ITaskContext, records []ocit.Transition, phases map[string]*phase.Phase, idx *signalgroup.Index) ([]*Transition, error) {
	res := make([]*Transition, 0)
	pos := make(map[Key]int)
	for _, r := range records {
		if r.From == nil || r.To == nil {
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagMissingEndpoint,
				Record: r.ID,
				Reason: "transition without from/to phase",
			})
			continue
		}
		from, okFrom := phases[*r.From]
		_, okTo := phases[*r.To]
		if !okFrom || !okTo {
			// 起止相位都不在本周期时属于其他周期，不记录
			if okFrom || okTo {
				ctx.Diagnostics().Add(entity.Diagnostic{
					Kind:   entity.DiagUnknownEndpoint,
					Record: r.ID,
					Reason: fmt.Sprintf("%s -> %s crosses the cycle", *r.From, *r.To),
				})
			}
			continue
		}
		key := Key{ID: r.ID, From: *r.From, To: *r.To}
		tr, err := synthesizeOne(ctx, r, key, from, idx)
		if err != nil {
			return nil, fmt.Errorf("transition %v: %w", key, err)
		}
		if p, ok := pos[key]; ok {
			res[p] = tr
		} else {
			pos[key] = len(res)
			res = append(res, tr)
		}
	}
	return res, nil
}

func synthesizeOne(ctx entity.ITaskContext, r ocit.Transition, key Key, from *phase.Phase, idx *signalgroup.Index) (*Transition, error) {
	rc := ctx.RuntimeConfig()
	duration := max(1, r.Duration)
	seed, err := reduceInitial(from, idx)
	if err != nil {
		return nil, err
	}
	for i := 0; i <= idx.MaxIndex; i++ {
		if rc.Traced(key.ID, "", i) {
			log.Infof("%s i=%d default %s", key.ID, i, seed.Complex(0, i))
		}
	}
	arena := seed.Replicate(duration)

	for _, e := range r.Elements {
		indices := idx.Indices(e.Group)
		var initial byte
		if e.Initial != nil {
			if initial, err = signalstate.Letter(*e.Initial); err != nil {
				return nil, fmt.Errorf("group %s: %w", e.Group, err)
			}
		} else if len(indices) > 0 {
			// 起始相位中该信号组第一个index的第一个槽位
			initial = from.Complex.Get(0, indices[0], 0)
		}
		if rc.Traced(key.ID, e.Group, -1) {
			log.Infof("%s %s init %c %v", key.ID, e.Group, initial, indices)
		}
		for _, i := range indices {
			arena.Fill(0, i, idx.Slot(e.Group, i), initial)
		}
		for _, sw := range e.Switches {
			l, err := signalstate.Letter(sw.Signal)
			if err != nil {
				return nil, fmt.Errorf("group %s t=%d: %w", e.Group, sw.Time, err)
			}
			if sw.Time < 0 {
				ctx.Diagnostics().Add(entity.Diagnostic{
					Kind:   entity.DiagSwitchOutOfRange,
					Record: key.ID,
					Reason: fmt.Sprintf("group %s switch time %d", e.Group, sw.Time),
				})
			}
			if rc.Traced(key.ID, e.Group, -1) {
				log.Infof("%s %s t=%d %c %v", key.ID, e.Group, sw.Time, l, indices)
			}
			for _, i := range indices {
				arena.Fill(sw.Time, i, idx.Slot(e.Group, i), l)
			}
		}
	}

	ticks := make(timeline.Timeline, duration)
	for t := range ticks {
		s, err := signalstate.Normalize(arena.ComplexTick(t), idx.IndexGroups(), ctx.Override())
		if err != nil {
			return nil, fmt.Errorf("t=%d: %w", t, err)
		}
		ticks[t] = timeline.State(s)
	}
	if rc.Traced(key.ID, "", -1) {
		log.Infof("%v", key)
		for t := range ticks {
			log.Infof("%v", arena.ComplexTick(t))
		}
	}
	return &Transition{Key: key, Duration: duration, Complex: arena, Ticks: ticks}, nil
}

// reduceInitial 由起始相位的复合灯色生成过渡种子（单个tick）
func reduceInitial(from *phase.Phase, idx *signalgroup.Index) (*timeline.Arena, error) {
	layout := from.Complex.Layout()
	seed := timeline.NewArena(layout, 1, signalstate.Off)
	for i := 0; i < layout.Indices(); i++ {
		complex := from.Complex.Complex(0, i)
		for s, g := range idx.GroupsAt(i) {
			raw := complex[s]
			if signalgroup.IsBlinker(g) {
				seed.Set(0, i, s, raw)
				continue
			}
			single, err := signalstate.InterpretComplexState(complex)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			if raw == signalstate.Green && single == signalstate.MinorGreen {
				seed.Set(0, i, s, single)
			} else {
				seed.Set(0, i, s, raw)
			}
		}
	}
	return seed, nil
}
