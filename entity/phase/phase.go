// 相位稳态灯色构建
package phase

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalgroup"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils"
)

// Phase 相位的稳态灯色
type Phase struct {
	ID      string
	Complex *timeline.Arena // 未归约的复合灯色（单个tick）
	State   timeline.State  // 归一化后的灯色向量
}

// Build 构建周期内各相位的稳态灯色
// 功能：以全部熄灭为初值，把相位中每个信号组的灯色写入其link index上对应的槽位，再归一化
// 参数：ctx-任务上下文，phases-相位记录，cycle-当前周期的相位ID，idx-信号组索引
// 返回：相位ID -> 相位；遇到未知灯色或无法归约的复合灯色时返回错误
// 说明：不在当前周期中的相位直接跳过
func Build(ctx entity.ITaskContext, phases []ocit.Phase, cycle []string, idx *signalgroup.Index) (map[string]*Phase, error) {
	layout := timeline.NewLayout(idx.SlotCounts())
	byID := lo.KeyBy(phases, func(p ocit.Phase) string { return p.ID })
	inCycle, _ := utils.Find(byID, phases, cycle)
	res := make(map[string]*Phase, len(inCycle))
	for _, p := range inCycle {
		arena := timeline.NewArena(layout, 1, signalstate.Off)
		for _, e := range p.Elements {
			l, err := signalstate.Letter(e.Signal)
			if err != nil {
				return nil, fmt.Errorf("phase %s group %s: %w", p.ID, e.Group, err)
			}
			for _, i := range idx.Indices(e.Group) {
				arena.Set(0, i, idx.Slot(e.Group, i), l)
			}
		}
		state, err := signalstate.Normalize(arena.ComplexTick(0), idx.IndexGroups(), ctx.Override())
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", p.ID, err)
		}
		res[p.ID] = &Phase{ID: p.ID, Complex: arena, State: timeline.State(state)}
	}
	if ctx.RuntimeConfig().C.Verbose {
		for _, id := range cycle {
			if p, ok := res[id]; ok {
				log.Debugf("%s %v", id, p.Complex.ComplexTick(0))
			}
		}
	}
	return res, nil
}
