package trafficlight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/trafficlight"
)

func TestPlayerSequential(t *testing.T) {
	p, err := trafficlight.NewPlayer([]trafficlight.Phase{
		{Duration: 2, State: "Gr", Next: -1},
		{Duration: 1, State: "yr", Next: -1},
		{Duration: 3, State: "rG", Next: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, timeline.Timeline{"Gr", "Gr", "yr", "rG", "rG", "rG", "Gr"}, p.Play(7))
	assert.Equal(t, 0, p.Step())
	assert.Equal(t, 1, p.RemainingTime())
	assert.Equal(t, 1, p.CycleTick())
	assert.Equal(t, "00:00:07", p.Elapsed())
}

func TestPlayerNext(t *testing.T) {
	p, err := trafficlight.NewPlayer([]trafficlight.Phase{
		{Duration: 1, State: "G", Next: -1},
		{Duration: 2, State: "y", Next: 0},
		{Duration: 5, State: "r", Next: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, timeline.Timeline{"G", "y", "y", "G", "y"}, p.Play(5))

	p.SetPhase(2, 2)
	assert.Equal(t, timeline.Timeline{"r", "r", "G"}, p.Play(3))
}

func TestPlayerZeroDuration(t *testing.T) {
	p, err := trafficlight.NewPlayer([]trafficlight.Phase{
		{Duration: 1, State: "G", Next: -1},
		{Duration: 0, State: "u", Next: -1},
		{Duration: 1, State: "r", Next: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, timeline.Timeline{"G", "r", "G"}, p.Play(3))
}

func TestPlayerStateRemaining(t *testing.T) {
	p, err := trafficlight.NewPlayer([]trafficlight.Phase{
		{Duration: 2, State: "Gr", Next: -1},
		{Duration: 1, State: "yr", Next: -1},
		{Duration: 3, State: "rr", Next: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.StateRemaining(0))
	assert.Equal(t, trafficlight.Forever, p.StateRemaining(1))
	p.Update(3)
	assert.Equal(t, 3, p.StateRemaining(0))

	// 末尾相位与第一个相位灯色相同时跨周期累加
	p, err = trafficlight.NewPlayer([]trafficlight.Phase{
		{Duration: 1, State: "G", Next: -1},
		{Duration: 1, State: "G", Next: -1},
		{Duration: 1, State: "r", Next: -1},
		{Duration: 2, State: "G", Next: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.StateRemaining(0))
	p.Update(3)
	assert.Equal(t, 3, p.Step())
	assert.Equal(t, 4, p.StateRemaining(0))
}

func TestNewPlayerInvalid(t *testing.T) {
	_, err := trafficlight.NewPlayer(nil)
	assert.Error(t, err)
	_, err = trafficlight.NewPlayer([]trafficlight.Phase{{Duration: 1, State: "G", Next: 3}})
	assert.Error(t, err)
	_, err = trafficlight.NewPlayer([]trafficlight.Phase{{Duration: 0, State: "G", Next: -1}})
	assert.Error(t, err)
	_, err = trafficlight.NewPlayer([]trafficlight.Phase{{Duration: 1, State: "G", Next: -1}, {Duration: 1, State: "Gr", Next: -1}})
	assert.Error(t, err)
}
