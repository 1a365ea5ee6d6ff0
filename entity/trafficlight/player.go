// 固定信号程序回放
package trafficlight

import (
	"fmt"
	"math"

	"github.com/tsinghua-fib-lab/ocit2sumo/clock"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

// Forever 灯色在整个程序中保持不变时StateRemaining的返回值
const Forever = math.MaxInt32

// Phase 回放用的相位
type Phase struct {
	Duration int
	State    timeline.State
	Next     int // 显式的下一相位，-1表示顺序执行
}

// playerRuntime 回放运行时数据
type playerRuntime struct {
	step       int
	totalTime  int
	remainingT int
}

// Player 固定信号程序回放器
// 功能：按相位时长与next引用逐tick推进，输出每个tick的灯色，用于校验编译结果
type Player struct {
	phases []Phase
	clock  *clock.Clock

	timeBeforeChange [][]int // link index -> 各相位结束后该index保持当前灯色的时间（顺序执行时）
	runtime          playerRuntime
}

// NewPlayer 创建回放器
// 参数：phases-相位列表
// 返回：回放器；相位为空、灯色长度不一致、时长为负或next越界时返回错误
func NewPlayer(phases []Phase) (*Player, error) {
	if len(phases) == 0 {
		return nil, fmt.Errorf("play with empty program")
	}
	total := 0
	for k, p := range phases {
		if len(p.State) != len(phases[0].State) {
			return nil, fmt.Errorf("phase %d has %d states, expected %d", k, len(p.State), len(phases[0].State))
		}
		if p.Duration < 0 {
			return nil, fmt.Errorf("phase %d has negative duration %d", k, p.Duration)
		}
		if p.Next >= len(phases) {
			return nil, fmt.Errorf("phase %d refers to next %d out of %d phases", k, p.Next, len(phases))
		}
		total += p.Duration
	}
	if total == 0 {
		return nil, fmt.Errorf("program has zero total duration")
	}
	pl := &Player{
		phases: phases,
		clock:  clock.New(total),
	}
	pl.initChangeTime()
	pl.SetPhase(0, phases[0].Duration)
	return pl, nil
}

// initChangeTime 计算每个index在各相位结束后保持灯色不变的时间
// 算法说明：
// 1. 从后往前遍历相位，后一相位灯色与当前相同时累加其时长及其后的保持时间
// 2. 所有相位灯色相同时记为无穷大
// 3. 首尾相位灯色相同时，把第一段的时间累加到末尾连续相同的相位上
func (p *Player) initChangeTime() {
	numPhases := len(p.phases)
	numIndices := len(p.phases[0].State)
	p.timeBeforeChange = make([][]int, 0, numIndices)
	for i := 0; i < numIndices; i++ {
		time := make([]int, numPhases)
		allTheSame := true
		for k := numPhases - 2; k >= 0; k-- {
			if p.phases[k+1].State.At(i) == p.phases[k].State.At(i) {
				time[k] = time[k+1] + p.phases[k+1].Duration
			} else {
				allTheSame = false
			}
		}
		if allTheSame {
			for k := range time {
				time[k] = Forever
			}
		} else {
			t0 := time[0] + p.phases[0].Duration
			lastState := p.phases[numPhases-1].State.At(i)
			if lastState == p.phases[0].State.At(i) {
				for k := numPhases - 1; k >= 0; k-- {
					if lastState != p.phases[k].State.At(i) {
						break
					}
					time[k] += t0
				}
			}
		}
		p.timeBeforeChange = append(p.timeBeforeChange, time)
	}
}

// SetPhase 设置当前相位与剩余时间
func (p *Player) SetPhase(offset, remainingT int) {
	p.runtime = playerRuntime{step: offset, totalTime: remainingT, remainingT: remainingT}
	p.clock.Init()
}

// Update 推进dt个tick
// 说明：剩余时间耗尽时切换到next（未指定时为下一相位），跳过时长为0的相位
func (p *Player) Update(dt int) {
	for k := 0; k < dt; k++ {
		p.clock.Step()
	}
	p.runtime.remainingT -= dt
	for p.runtime.remainingT <= 0 {
		next := p.phases[p.runtime.step].Next
		if next < 0 {
			next = (p.runtime.step + 1) % len(p.phases)
		}
		p.runtime.step = next
		p.runtime.remainingT += p.phases[next].Duration
		p.runtime.totalTime = p.phases[next].Duration
	}
}

// Play 从当前状态回放ticks个tick
// 返回：每个tick的灯色
func (p *Player) Play(ticks int) timeline.Timeline {
	res := make(timeline.Timeline, 0, ticks)
	for k := 0; k < ticks; k++ {
		res = append(res, p.State())
		p.Update(1)
	}
	return res
}

// State 当前灯色
func (p *Player) State() timeline.State {
	return p.phases[p.runtime.step].State
}

// Step 当前相位序号
func (p *Player) Step() int {
	return p.runtime.step
}

// RemainingTime 当前相位剩余时间
func (p *Player) RemainingTime() int {
	return p.runtime.remainingT
}

// CycleTick 当前时刻在程序周期内的位置
func (p *Player) CycleTick() int {
	return p.clock.InCycle()
}

// Elapsed 回放开始以来经过的时间
func (p *Player) Elapsed() string {
	return p.clock.String()
}

// StateRemaining link index保持当前灯色的剩余时间（按顺序执行估计）
func (p *Player) StateRemaining(i int) int {
	t := p.timeBeforeChange[i][p.runtime.step]
	if t == Forever {
		return t
	}
	return p.runtime.remainingT + t
}
