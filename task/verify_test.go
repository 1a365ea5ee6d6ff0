package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/program"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/trafficlight"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

func TestHoldTime(t *testing.T) {
	ticks := timeline.Timeline{"Gr", "Gr", "yr", "rr", "Gr"}
	assert.Equal(t, 2, holdTime(ticks, 0, 0))
	// 跨周期：末尾的G与开头的G连续
	assert.Equal(t, 3, holdTime(ticks, 4, 0))
	assert.Equal(t, 1, holdTime(ticks, 2, 0))
	assert.Equal(t, trafficlight.Forever, holdTime(ticks, 1, 1))
}

func TestVerifyPrograms(t *testing.T) {
	rc, err := config.NewRuntimeConfig(config.Default())
	require.NoError(t, err)
	steps := []timeline.Run[timeline.State]{
		{Duration: 1, Value: "rG"},
		{Duration: 3, Value: "GG"},
		{Duration: 2, Value: "yG"},
		{Duration: 2, Value: "rG"},
	}
	good := &program.CompiledProgram{
		ID: "SP1", CycleTime: 8, Steps: steps,
		Ticks: timeline.Timeline(timeline.Expand(steps)),
	}
	ctx := NewContext(rc)
	require.NoError(t, verifyPrograms(ctx, []*program.CompiledProgram{good}))
	assert.Zero(t, ctx.Diagnostics().Count(entity.DiagVerificationMismatch))

	bad := &program.CompiledProgram{
		ID: "SP2", CycleTime: 8, Steps: steps,
		Ticks: timeline.Timeline{"rG", "GG", "GG", "GG", "yG", "rG", "rG", "rG"},
	}
	ctx = NewContext(rc)
	err = verifyPrograms(ctx, []*program.CompiledProgram{good, bad})
	assert.Error(t, err)
	items := ctx.Diagnostics().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "SP2", items[0].Record)
	// 第4个tick起黄灯只应保持1个tick
	assert.Equal(t, "tick 4 step 2 (2 left) index 0: holds 2 ticks, expected 1", items[0].Reason)

	bad.Ticks = timeline.Timeline{"GG", "GG", "GG", "GG", "yG", "yG", "rG", "rG"}
	ctx = NewContext(rc)
	assert.Error(t, verifyPrograms(ctx, []*program.CompiledProgram{bad}))
	assert.Equal(t, "tick 0: played rG, expected GG", ctx.Diagnostics().Items()[0].Reason)
}
