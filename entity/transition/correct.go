package transition

import (
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

// Correction 一次主绿灯降级
type Correction struct {
	Index int   // link index
	Ticks []int // 被降级的tick
}

// Correct 修正过渡中的主/次绿灯不一致
// 功能：起始为次绿灯'g'且目标不是主绿灯'G'的index，过渡中出现的'G'全部降级为'g'
// 参数：tl-过渡时间线，from/to-起止相位灯色
// 返回：修正后的新时间线与降级记录，tl本身不被修改
func Correct(tl timeline.Timeline, from, to timeline.State) (timeline.Timeline, []Correction) {
	res := tl.Clone()
	corrections := make([]Correction, 0)
	for i := 0; i < len(from) && i < len(to); i++ {
		if from.At(i) != signalstate.MinorGreen || to.At(i) == signalstate.Green {
			continue
		}
		ticks := make([]int, 0)
		for t, s := range res {
			if s.At(i) == signalstate.Green {
				res[t] = s.With(i, signalstate.MinorGreen)
				ticks = append(ticks, t)
			}
		}
		if len(ticks) > 0 {
			corrections = append(corrections, Correction{Index: i, Ticks: ticks})
		}
	}
	return res, corrections
}
