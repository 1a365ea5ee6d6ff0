package transition

import (
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

// Clearance 过渡灯色插入结果
type Clearance struct {
	Ticks timeline.Timeline
	// Unsupported 出现红->绿边界但红黄时长大于1、未插入红黄的link index
	Unsupported []int
}

// InsertClearance 在过渡中插入黄灯与红黄
// 功能：对每个link index，在绿->红边界后插入黄灯，在红->绿边界处插入红黄
// 参数：tl-修正后的过渡时间线，from/to-起止相位灯色，yellow/redYellow-按link index查询过渡灯色时长
// 返回：新时间线，tl本身不被修改
// 算法说明：
// 1. 正向扫描：前一状态（初始为起始相位灯色）为绿且当前tick变为'r'时，
// 从该tick起写入yellow(i)个'y'，不超过过渡结束，只处理第一个边界
// 2. 反向扫描：后一状态（初始为目标相位灯色）为绿且当前状态为'r'时，
// 把红之后的tick写为'u'，扫描包含过渡开始前的虚拟tick（取起始相位灯色），只处理第一个边界
// 3. 红黄只处理redYellow(i)==1的情形，更长的红黄不插入
func InsertClearance(tl timeline.Timeline, from, to timeline.State, yellow, redYellow func(i int) int) Clearance {
	res := tl.Clone()
	unsupported := make([]int, 0)
	n := len(res)
	for i := 0; i < len(to); i++ {
		before := from.At(i)
		for t := 0; t < n; t++ {
			cur := res[t].At(i)
			if cur == signalstate.Red && signalstate.IsGreen(before) {
				for t2 := t; t2 < t+yellow(i) && t2 < n; t2++ {
					res[t2] = res[t2].With(i, signalstate.Yellow)
				}
				break
			}
			before = cur
		}

		after := to.At(i)
		reported := false
		for t := n - 1; t >= -1; t-- {
			var old byte
			if t == -1 {
				old = from.At(i)
			} else {
				old = res[t].At(i)
			}
			if old == signalstate.Red && signalstate.IsGreen(after) {
				if d := redYellow(i); d == 1 {
					if t+1 < n {
						res[t+1] = res[t+1].With(i, signalstate.RedYellow)
					}
					break
				} else if d > 1 && !reported {
					unsupported = append(unsupported, i)
					reported = true
				}
			}
			after = old
		}
	}
	return Clearance{Ticks: res, Unsupported: unsupported}
}
