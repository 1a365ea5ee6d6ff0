package task

import (
	"fmt"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/program"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/trafficlight"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/transition"
)

// verifyCycle 回放校验相位程序
// 功能：从每个过渡的第一段开始回放过渡时长，与插入过渡灯色后的逐tick时间线比较
func verifyCycle(ctx *Context, asm *program.Assembly, trs []*transition.Transition, finals []timeline.Timeline) error {
	if len(asm.Steps) == 0 {
		return nil
	}
	phases := make([]trafficlight.Phase, len(asm.Steps))
	for k, s := range asm.Steps {
		phases[k] = trafficlight.Phase{Duration: s.Duration, State: s.State, Next: s.Next}
	}
	player, err := trafficlight.NewPlayer(phases)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	failed := 0
	for k, tr := range trs {
		start := asm.Starts[k]
		player.SetPhase(start, phases[start].Duration)
		played := player.Play(len(finals[k]))
		if t, ok := firstMismatch(played, finals[k]); !ok {
			failed++
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagVerificationMismatch,
				Record: tr.ID,
				Reason: fmt.Sprintf("tick %d: played %s, expected %s", t, played[t], finals[k][t]),
			})
		}
	}
	if failed > 0 {
		return fmt.Errorf("verify: %d transitions differ from their replay", failed)
	}
	return nil
}

// verifyPrograms 回放校验信号程序
// 功能：逐tick回放一个周期，与未压缩的逐tick灯色比较，
// 并检查每个link index的剩余保持时间与时间线中下一次变化（跨周期）一致
func verifyPrograms(ctx *Context, programs []*program.CompiledProgram) error {
	failed := 0
	for _, p := range programs {
		if len(p.Steps) == 0 {
			continue
		}
		phases := make([]trafficlight.Phase, len(p.Steps))
		for k, s := range p.Steps {
			phases[k] = trafficlight.Phase{Duration: s.Duration, State: s.Value, Next: -1}
		}
		player, err := trafficlight.NewPlayer(phases)
		if err != nil {
			return fmt.Errorf("verify program %s: %w", p.ID, err)
		}
		if reason, ok := replayProgram(player, p.Ticks); !ok {
			failed++
			ctx.Diagnostics().Add(entity.Diagnostic{
				Kind:   entity.DiagVerificationMismatch,
				Record: p.ID,
				Reason: reason,
			})
		}
		log.Debugf("program %s verified over %s", p.ID, player.Elapsed())
	}
	if failed > 0 {
		return fmt.Errorf("verify: %d programs differ from their replay", failed)
	}
	return nil
}

// replayProgram 回放一个周期，返回第一个不一致处的说明
func replayProgram(player *trafficlight.Player, ticks timeline.Timeline) (string, bool) {
	for range ticks {
		t := player.CycleTick()
		if played := player.State(); played != ticks[t] {
			return fmt.Sprintf("tick %d: played %s, expected %s", t, played, ticks[t]), false
		}
		for i := 0; i < len(ticks[t]); i++ {
			if got, want := player.StateRemaining(i), holdTime(ticks, t, i); got != want {
				return fmt.Sprintf("tick %d step %d (%d left) index %d: holds %d ticks, expected %d",
					t, player.Step(), player.RemainingTime(), i, got, want), false
			}
		}
		player.Update(1)
	}
	return "", true
}

// holdTime 第t个tick起第i个link index保持灯色的tick数（含当前tick，跨周期），从不变化时返回trafficlight.Forever
func holdTime(ticks timeline.Timeline, t, i int) int {
	n := len(ticks)
	l := ticks[t].At(i)
	for k := 1; k < n; k++ {
		if ticks[(t+k)%n].At(i) != l {
			return k
		}
	}
	return trafficlight.Forever
}

// firstMismatch 返回第一个不一致的tick，played与expected等长
func firstMismatch(played, expected timeline.Timeline) (int, bool) {
	for t := range expected {
		if played[t] != expected[t] {
			return t, false
		}
	}
	return 0, true
}
