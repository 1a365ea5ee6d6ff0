package task_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/timeline"
	"github.com/tsinghua-fib-lab/ocit2sumo/task"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

func element(group, signal string) ocit.PhaseElement {
	return ocit.PhaseElement{Group: group, Signal: signal}
}

func switching(group string, time int, signal string) ocit.SwitchingElement {
	return ocit.SwitchingElement{Group: group, Switches: []ocit.Switch{{Time: time, Signal: signal}}}
}

func testDoc() *ocit.Document {
	return &ocit.Document{
		SignalGroups: []ocit.SignalGroup{
			{ID: "K1", Comments: []string{"0"}, Deactivation: []ocit.ClearanceElement{{Duration: lo.ToPtr(2)}}},
			{ID: "K2", Comments: []string{"1"}, Activation: []ocit.ClearanceElement{{Duration: lo.ToPtr(1)}}},
		},
		Phases: []ocit.Phase{
			{ID: "P1", Elements: []ocit.PhaseElement{element("K1", "gruen"), element("K2", "rot")}},
			{ID: "P2", Elements: []ocit.PhaseElement{element("K1", "rot"), element("K2", "gruen")}},
			{ID: "P31", Elements: []ocit.PhaseElement{element("K1", "gruen")}},
			{ID: "P32", Elements: []ocit.PhaseElement{element("K1", "blau")}},
		},
		Transitions: []ocit.Transition{
			{ID: "T12", Duration: 4, From: lo.ToPtr("P1"), To: lo.ToPtr("P2"), Elements: []ocit.SwitchingElement{
				switching("K1", 1, "rot"), switching("K2", 3, "gruen"),
			}},
			{ID: "T21", Duration: 4, From: lo.ToPtr("P2"), To: lo.ToPtr("P1"), Elements: []ocit.SwitchingElement{
				switching("K2", 1, "rot"), switching("K1", 3, "gruen"),
			}},
		},
		Programs: []ocit.Program{{
			ID: "SP1", CycleTime: 8,
			Rows: []ocit.ProgramRow{
				{Group: "K1", Switches: []ocit.Switch{{Time: 1, Signal: "gruen"}, {Time: 4, Signal: "rot"}}},
				{Group: "K2", Permanent: lo.ToPtr("rot")},
			},
		}},
	}
}

func runtimeConfig(t *testing.T, modify func(c *config.Config)) *config.RuntimeConfig {
	c := config.Default()
	c.Input.File = "records.yaml"
	c.Control.TlsID = "J"
	c.Control.Verify = true
	if modify != nil {
		modify(&c)
	}
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	return rc
}

func TestRunCycles(t *testing.T) {
	metrics := task.NewMetrics()
	res, err := task.New(runtimeConfig(t, nil), testDoc(), metrics).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Cycles, 2)
	ok := res.Cycles[0]
	require.NoError(t, ok.Err)
	assert.Equal(t, "J", ok.TlsID)
	assert.Equal(t, []string{"P1", "P2"}, ok.Cycle.Phases)

	states := make([]string, len(ok.Steps))
	durations := make([]int, len(ok.Steps))
	nexts := make([]int, len(ok.Steps))
	for k, s := range ok.Steps {
		states[k] = string(s.State)
		durations[k] = s.Duration
		nexts[k] = s.Next
	}
	assert.Equal(t, []string{"Gr", "Gr", "yr", "ru", "rG", "rG", "rr", "Gr"}, states)
	assert.Equal(t, []int{5, 1, 2, 1, 5, 1, 2, 1}, durations)
	assert.Equal(t, []int{-1, -1, -1, -1, -1, -1, -1, 0}, nexts)

	// 一个周期失败不影响其他周期
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "J3", failed[0].TlsID)
	assert.Equal(t, "3", failed[0].Cycle.NodeID)
	assert.Error(t, failed[0].Err)

	assert.Zero(t, res.Diagnostics.Count(entity.DiagVerificationMismatch))
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(`
# HELP ocit2sumo_cycles_total Compiled cycles by status
# TYPE ocit2sumo_cycles_total counter
ocit2sumo_cycles_total{status="failed"} 1
ocit2sumo_cycles_total{status="ok"} 1
# HELP ocit2sumo_transitions_total Synthesized phase transitions
# TYPE ocit2sumo_transitions_total counter
ocit2sumo_transitions_total 2
`), "ocit2sumo_cycles_total", "ocit2sumo_transitions_total"))
}

func TestRunIgnoreNodes(t *testing.T) {
	rc := runtimeConfig(t, func(c *config.Config) { c.Control.IgnoreNodes = "3" })
	res, err := task.New(rc, testDoc(), nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Cycles, 1)
	assert.Empty(t, res.Failed())
}

func TestRunPrograms(t *testing.T) {
	rc := runtimeConfig(t, func(c *config.Config) { c.Control.UsePrograms = true })
	metrics := task.NewMetrics()
	res, err := task.New(rc, testDoc(), metrics).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Programs, 1)
	p := res.Programs[0]
	assert.Equal(t, "SP1", p.ID)
	// K1没有红黄，黄灯2
	assert.Equal(t, "rGGGyyrr", p.Ticks.Column(0))
	assert.Equal(t, p.Ticks, timeline.Timeline(timeline.Expand(p.Steps)))
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(`
# HELP ocit2sumo_programs_total Compiled signal programs
# TYPE ocit2sumo_programs_total counter
ocit2sumo_programs_total 1
`), "ocit2sumo_programs_total"))
}

func TestRunProgramsError(t *testing.T) {
	rc := runtimeConfig(t, func(c *config.Config) { c.Control.UsePrograms = true })
	doc := testDoc()
	doc.Programs[0].Rows = append(doc.Programs[0].Rows, ocit.ProgramRow{Group: "K2"})
	_, err := task.New(rc, doc, nil).Run(context.Background())
	assert.Error(t, err)
}
