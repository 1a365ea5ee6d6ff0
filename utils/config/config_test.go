package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(`
input:
  file: records.yaml
control:
  tls_id: J1
  minor_index: 1, 4
  major_index: K2,7
  ignore_phases: "31"
  trace:
    index: 3
output:
  file: out.add.xml
`))
	require.NoError(t, err)
	require.NoError(t, config.Validate(c))
	assert.Equal(t, "J1", c.Control.TlsID)
	assert.Equal(t, 5, c.Control.MinDuration)
	assert.Equal(t, 100, c.Control.PhaseDuration)
	assert.Equal(t, "sumo", c.Output.Format)

	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, map[int]struct{}{1: {}, 4: {}}, rc.MinorIndex)
	assert.Equal(t, map[string]struct{}{"K2": {}, "7": {}}, rc.MajorGroups)
	assert.Equal(t, map[int]struct{}{31: {}}, rc.IgnorePhases)
	assert.Empty(t, rc.IgnoreNodes)
}

func TestParseUnknownField(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  tls: J1\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := config.Default()
	err := config.Validate(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c.Input.File = "records.yaml"
	assert.NoError(t, config.Validate(c))

	c.Output.Format = "xml"
	assert.ErrorIs(t, config.Validate(c), config.ErrInvalidConfig)

	c = config.Default()
	c.Input.URI = "mongodb://localhost:27017"
	assert.ErrorIs(t, config.Validate(c), config.ErrInvalidConfig)
	c.Input.SignalGroups = &config.InputPath{DB: "ocit", Col: "groups"}
	c.Input.Phases = &config.InputPath{DB: "ocit", Col: "phases"}
	c.Input.Transitions = &config.InputPath{DB: "ocit", Col: "transitions"}
	assert.NoError(t, config.Validate(c))
}

func TestNewRuntimeConfigInvalid(t *testing.T) {
	c := config.Default()
	c.Input.File = "records.yaml"
	c.Control.MinorIndex = "1,x"
	_, err := config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "minor_index")

	c.Control.MinorIndex = ""
	c.Control.IgnoreNodes = "-1"
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c.Control.IgnoreNodes = ""
	c.Control.UsePrograms = true
	c.Output.Format = "aglosa"
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTraced(t *testing.T) {
	c := config.Default()
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.False(t, rc.Traced("PUe 1-2", "K1", 3))

	idx := 3
	c.Control.Trace = config.Trace{Index: &idx, Transition: "1-2"}
	rc, err = config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.True(t, rc.Traced("PUe 1-2", "K1", 3))
	assert.True(t, rc.Traced("PUe 1-2", "", -1))
	assert.False(t, rc.Traced("PUe 2-3", "K1", 3))
	assert.False(t, rc.Traced("PUe 1-2", "K1", 4))
}
