package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

const records = `
signal_groups:
  - id: K1
    comments: ["0;1"]
    activation: [{duration: 1}]
    deactivation: [{duration: 3}]
  - id: BL2
    partial_node: 2
    comments: ["2"]
phases:
  - id: Phase 11
    elements:
      - {group: K1, signal: gruen}
transitions:
  - id: PUe 11-12
    duration: 4
    from: Phase 11
    to: Phase 12
    elements:
      - group: K1
        switches:
          - {time: 2, signal: rot}
programs:
  - id: "1"
    cycle_time: 90
    rows:
      - {group: BL2, permanent: gelbblk}
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(records), 0o644))

	doc, err := Load(context.Background(), config.Input{File: path})
	require.NoError(t, err)
	require.Len(t, doc.SignalGroups, 2)
	assert.Equal(t, "K1", doc.SignalGroups[0].ID)
	assert.Equal(t, 3, *doc.SignalGroups[0].Deactivation[0].Duration)
	assert.Equal(t, 2, *doc.SignalGroups[1].PartialNode)
	assert.Equal(t, []string{"Phase 11"}, doc.PhaseIDs())
	require.Len(t, doc.Transitions, 1)
	assert.Equal(t, "Phase 12", *doc.Transitions[0].To)
	assert.Nil(t, doc.Transitions[0].Elements[0].Initial)
	assert.Equal(t, "gelbblk", *doc.Programs[0].Rows[0].Permanent)
}

func TestLoadFileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signal_groups:\n  - id: K1\n    colour: red\n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	d := 2
	doc := &ocit.Document{SignalGroups: []ocit.SignalGroup{{ID: "K1", Comments: []string{"0"}, Activation: []ocit.ClearanceElement{{Duration: &d}}}}}
	path := filepath.Join(dir, "cache.yaml")
	require.NoError(t, SaveFile(path, doc))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.SignalGroups, loaded.SignalGroups)
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, preCheckCache(dir))
	assert.False(t, preCheckCache(""))
	assert.False(t, preCheckCache(filepath.Join(dir, "missing")))

	c := config.Input{
		URI:          "mongodb://localhost:27017",
		Cache:        dir,
		SignalGroups: &config.InputPath{DB: "ocit", Col: "groups"},
		Phases:       &config.InputPath{DB: "ocit", Col: "phases"},
		Transitions:  &config.InputPath{DB: "ocit", Col: "transitions"},
	}
	assert.Equal(t, "ocit.groups+ocit.phases+ocit.transitions.yaml", cacheName(c))

	// 缓存命中时不连接数据库
	path := filepath.Join(dir, cacheName(c))
	require.NoError(t, os.WriteFile(path, []byte(records), 0o644))
	doc, err := Load(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, doc.SignalGroups, 2)
}
