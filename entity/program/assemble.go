package program

import (
	"fmt"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

// Step 相位程序中的一步
type Step struct {
	Duration  int
	State     timeline.State
	Next      int // 显式的下一步序号，-1表示顺序执行
	Major     int // 所属（起始）相位编号
	MajorNext int // 目标相位编号，稳定相位为0
	// Annotation 输出注释（含对齐用的前导空格）
	Annotation string
}

// Timed 压缩后的过渡
type Timed struct {
	ID   string
	From string
	To   string
	Runs []timeline.Run[timeline.State]
}

// Assembly 相位列表模式的装配结果
type Assembly struct {
	Steps      []Step
	PhaseIndex map[string]int // 相位ID -> 步序号
	Starts     []int          // 每个过渡（与输入顺序一致）第一段的步序号
}

// AssemblePhases 相位列表模式装配
// 功能：按周期顺序输出每个稳定相位，紧接着输出从该相位到周期中下一相位的过渡，最后输出未使用的过渡
// 参数：cycle-周期，states-相位ID -> 稳态灯色，transitions-压缩后的过渡（文档顺序），minDur-稳定相位的最短时长
// 返回：相位程序及各相位/过渡的位置
// 算法说明：
// 1. 稳定相位输出为(minDur, state, -1, 编号, 0)，并记录其序号
// 2. 过渡的每一段输出为(时长, state, next, 起始编号, 目标编号)，
// 只有最后一段在目标相位已有序号时带next
// 3. 同一对起止相位有多个过渡时，周期内只使用文档中的第一个，其余作为未使用的过渡追加
func AssemblePhases(cycle Cycle, states map[string]timeline.State, transitions []Timed, minDur int) *Assembly {
	steps := make([]Step, 0)
	index := make(map[string]int)
	starts := make([]int, len(transitions))
	used := make([]bool, len(transitions))
	for k, id := range cycle.Phases {
		steps = append(steps, Step{
			Duration:   minDur,
			State:      states[id],
			Next:       -1,
			Major:      cycle.Major[id],
			MajorNext:  0,
			Annotation: fmt.Sprintf("          <!-- %3d %s -->", len(steps), id),
		})
		index[id] = len(steps) - 1
		next := cycle.Phases[(k+1)%len(cycle.Phases)]
		for j, tr := range transitions {
			if !used[j] && tr.From == id && tr.To == next {
				used[j] = true
				starts[j] = len(steps)
				steps = appendTransition(steps, tr, cycle.Major, index)
				break
			}
		}
	}
	for j, tr := range transitions {
		if !used[j] {
			starts[j] = len(steps)
			steps = appendTransition(steps, tr, cycle.Major, index)
		}
	}
	return &Assembly{Steps: steps, PhaseIndex: index, Starts: starts}
}

func appendTransition(steps []Step, tr Timed, major map[string]int, index map[string]int) []Step {
	for k, r := range tr.Runs {
		next := -1
		if k == len(tr.Runs)-1 {
			if n, ok := index[tr.To]; ok {
				next = n
			}
		}
		pad := "          "
		if next != -1 {
			pad = " "
		}
		steps = append(steps, Step{
			Duration:   r.Duration,
			State:      r.Value,
			Next:       next,
			Major:      major[tr.From],
			MajorNext:  major[tr.To],
			Annotation: fmt.Sprintf("%s<!-- %3d %s -->", pad, len(steps), tr.ID),
		})
	}
	return steps
}
