package timeline_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
)

func TestCompact(t *testing.T) {
	ticks := []timeline.State{"r", "r", "r", "y", "y", "G", "G"}
	runs := timeline.Compact(ticks)
	assert.Equal(t, []timeline.Run[timeline.State]{
		{Duration: 3, Value: "r"},
		{Duration: 2, Value: "y"},
		{Duration: 2, Value: "G"},
	}, runs)
	assert.Equal(t, ticks, timeline.Expand(runs))
}

func TestCompactRoundTrip(t *testing.T) {
	cases := [][]timeline.State{
		{},
		{"rG"},
		{"rG", "rG", "yG", "rG", "rG", "ru", "rG"},
		{"Gr", "gr", "Gr", "Gr"},
	}
	for _, ticks := range cases {
		runs := timeline.Compact(ticks)
		assert.Equal(t, len(ticks), sumDurations(runs))
		assert.Equal(t, len(ticks) == 0, len(runs) == 0)
		for k := 1; k < len(runs); k++ {
			assert.NotEqual(t, runs[k-1].Value, runs[k].Value)
		}
		assert.Equal(t, ticks, timeline.Expand(runs))
	}
}

func TestCompactFunc(t *testing.T) {
	ticks := [][]string{{"G", "r"}, {"G", "r"}, {"y", "r"}}
	runs := timeline.CompactFunc(ticks, slices.Equal[[]string])
	assert.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].Duration)
	assert.Len(t, timeline.Singles(ticks), 3)
}

func TestArena(t *testing.T) {
	layout := timeline.NewLayout([]int{1, 2, 1})
	assert.Equal(t, 4, layout.Width())
	seed := timeline.NewArena(layout, 1, 'O')
	seed.Set(0, 1, 1, 'G')
	assert.Equal(t, "OG", seed.Complex(0, 1))

	a := seed.Replicate(3)
	a.Fill(1, 0, 0, 'r')
	assert.Equal(t, []string{"O", "OG", "O"}, a.ComplexTick(0))
	assert.Equal(t, []string{"r", "OG", "O"}, a.ComplexTick(2))

	b := a.Clone()
	b.Set(0, 2, 0, 'y')
	assert.Equal(t, byte('O'), a.Get(0, 2, 0))
	assert.Equal(t, byte('y'), b.Get(0, 2, 0))
	assert.Panics(t, func() { a.Set(0, 0, 1, 'G') })
}

func TestTimeline(t *testing.T) {
	tl := timeline.Timeline{"rG", "yG"}
	c := tl.Clone()
	c[0] = c[0].With(0, 'u')
	assert.Equal(t, timeline.State("rG"), tl[0])
	assert.Equal(t, timeline.State("uG"), c[0])
	assert.Equal(t, "ry", tl.Column(0))
}

func sumDurations(runs []timeline.Run[timeline.State]) int {
	n := 0
	for _, r := range runs {
		n += r.Duration
	}
	return n
}
