package program

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tsinghua-fib-lab/ocit2sumo/clock"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalgroup"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

var (
	ErrEmptyProgramRow  = errors.New("neither switches nor permanent signal state were given")
	ErrInvalidCycleTime = errors.New("invalid cycle time")
)

// CompiledProgram 连续信号程序模式的编译结果
type CompiledProgram struct {
	ID        string
	CycleTime int
	Steps     []timeline.Run[timeline.State]
	// Ticks 未压缩的逐tick灯色，用于回放校验
	Ticks timeline.Timeline
}

// CompilePrograms 连续信号程序模式装配
// 功能：不经过相位，直接按各信号组的切换时刻在一个周期内生成逐tick灯色
// 参数：ctx-任务上下文，programs-信号程序（文档顺序），idx-信号组索引
// 返回：按文档顺序排列的编译结果；某行既无切换又无常亮灯色时返回ErrEmptyProgramRow
func CompilePrograms(ctx entity.ITaskContext, programs []ocit.Program, idx *signalgroup.Index) ([]*CompiledProgram, error) {
	res := make([]*CompiledProgram, 0, len(programs))
	for _, p := range programs {
		cp, err := compileProgram(ctx, p, idx)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", p.ID, err)
		}
		res = append(res, cp)
		if ctx.RuntimeConfig().C.Verbose {
			log.Debugf("Created program %s", p.ID)
			for _, s := range cp.Steps {
				log.Debugf("(%d, %s)", s.Duration, s.Value)
			}
		}
	}
	return res, nil
}

// compileProgram 编译单个信号程序
// 算法说明：
// 1. 每个tick每个link index维护一个字母列表，按行的顺序追加
// 2. 常亮行：全部tick追加常亮灯色
// 3. 切换行：切换到'G'之前的区间填关闭灯色（该行中最后一个非'G'灯色，缺省'r'），
// 切换到其他灯色之前的区间填'G'；切换到'G'时把之前的红黄时长替换为'u'，
// 切换到其他灯色时把之后的黄灯时长替换为'y'，超出周期的部分取模回绕；
// 最后一个切换之后到周期结束填该切换的灯色
// 4. 按原始字母列表分组压缩（可关闭），空列表视为'o'，最后归一化
func compileProgram(ctx entity.ITaskContext, p ocit.Program, idx *signalgroup.Index) (*CompiledProgram, error) {
	if p.CycleTime <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCycleTime, p.CycleTime)
	}
	cycleTime := p.CycleTime
	n := idx.MaxIndex + 1
	sig := make([][][]byte, cycleTime)
	for t := range sig {
		sig[t] = make([][]byte, n)
	}
	// 同一组的多个index中最后一个的过渡时长决定下一区间的起点
	dur := 0
	for _, row := range p.Rows {
		if !idx.Has(row.Group) {
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagUnknownProgramGroup,
				Record: p.ID,
				Reason: fmt.Sprintf("group %s", row.Group),
			})
			continue
		}
		indices := idx.Indices(row.Group)
		if len(row.Switches) == 0 {
			if row.Permanent == nil {
				return nil, fmt.Errorf("%w: group %s", ErrEmptyProgramRow, row.Group)
			}
			perm, err := signalstate.Letter(*row.Permanent)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", row.Group, err)
			}
			for _, i := range indices {
				for t := 0; t < cycleTime; t++ {
					sig[t][i] = append(sig[t][i], perm)
				}
			}
			continue
		}

		type event struct {
			t     int
			state byte
		}
		events := make([]event, 0, len(row.Switches))
		closed := signalstate.Red
		for _, sw := range row.Switches {
			l, err := signalstate.Letter(sw.Signal)
			if err != nil {
				return nil, fmt.Errorf("group %s t=%d: %w", row.Group, sw.Time, err)
			}
			events = append(events, event{t: sw.Time, state: l})
			if l != signalstate.Green {
				closed = l
			}
		}

		start := 0
		for k, ev := range events {
			onset := ev.state == signalstate.Green
			assign := signalstate.Green
			if onset {
				assign = closed
			}
			for _, i := range indices {
				for t := max(0, start); t < min(ev.t, cycleTime); t++ {
					sig[t][i] = append(sig[t][i], assign)
				}
				if onset {
					dur = min(idx.RedYellow(i), idx.GroupRedYellow(row.Group))
					for t := ev.t - dur; t < ev.t; t++ {
						sig[clock.Wrap(t, cycleTime)][i] = []byte{signalstate.RedYellow}
					}
				} else {
					dur = min(idx.Yellow(i), idx.GroupYellow(row.Group))
					for t := ev.t; t < ev.t+dur; t++ {
						sig[clock.Wrap(t, cycleTime)][i] = []byte{signalstate.Yellow}
					}
				}
			}
			if onset {
				start = ev.t
			} else {
				start = ev.t + dur
			}
			if k == len(events)-1 {
				for _, i := range indices {
					for t := max(0, start); t < cycleTime; t++ {
						sig[t][i] = append(sig[t][i], ev.state)
					}
				}
			}
		}
	}

	raw := make([][]string, cycleTime)
	for t := range raw {
		raw[t] = make([]string, n)
		for i := range raw[t] {
			raw[t][i] = string(sig[t][i])
		}
	}
	var runs []timeline.Run[[]string]
	if ctx.RuntimeConfig().C.NoGrouping {
		runs = timeline.Singles(raw)
	} else {
		runs = timeline.CompactFunc(raw, slices.Equal[[]string])
	}

	cp := &CompiledProgram{
		ID:        p.ID,
		CycleTime: cycleTime,
		Steps:     make([]timeline.Run[timeline.State], 0, len(runs)),
	}
	for _, r := range runs {
		state, err := normalizeTick(ctx, r.Value, idx)
		if err != nil {
			return nil, err
		}
		cp.Steps = append(cp.Steps, timeline.Run[timeline.State]{Duration: r.Duration, Value: state})
	}
	cp.Ticks = make(timeline.Timeline, cycleTime)
	for t := range raw {
		state, err := normalizeTick(ctx, raw[t], idx)
		if err != nil {
			return nil, err
		}
		cp.Ticks[t] = state
	}
	return cp, nil
}

func normalizeTick(ctx entity.ITaskContext, tick []string, idx *signalgroup.Index) (timeline.State, error) {
	complex := make([]string, len(tick))
	for i, c := range tick {
		if c == "" {
			c = string(signalstate.OffBlink)
		}
		complex[i] = c
	}
	s, err := signalstate.Normalize(complex, idx.IndexGroups(), ctx.Override())
	if err != nil {
		return "", fmt.Errorf("complex %s: %w", strings.Join(complex, ","), err)
	}
	return timeline.State(s), nil
}
