package signalstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
)

func TestLetter(t *testing.T) {
	cases := map[string]byte{
		"gruen":   'G',
		"gelb":    'y',
		"rot":     'r',
		"rotgelb": 'u',
		"dunkel":  'O',
		"gelbblk": 'o',
		"30":      'G',
		"0C":      'y',
		"03":      'r',
		"0F":      'u',
		"00":      'o',
		"08":      'o',
	}
	for token, want := range cases {
		got, err := signalstate.Letter(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}
	_, err := signalstate.Letter("blau")
	assert.ErrorIs(t, err, signalstate.ErrUnknownColor)
}

func TestInterpretComplexState(t *testing.T) {
	cases := []struct {
		state string
		want  byte
	}{
		{"rO", 'r'},
		{"GGG", 'G'},
		{"Go", 'g'},
		{"OGO", 'G'},
		{"rGG", 'g'},
		{"yr", 'r'},
		{"uOG", 'u'},
	}
	for _, c := range cases {
		got, err := signalstate.InterpretComplexState(c.state)
		require.NoError(t, err, c.state)
		assert.Equal(t, string(c.want), string(got), c.state)
	}

	_, err := signalstate.InterpretComplexState("xy")
	assert.ErrorIs(t, err, signalstate.ErrUnknownCombination)
	_, err = signalstate.InterpretComplexState("")
	assert.ErrorIs(t, err, signalstate.ErrUnknownCombination)
}

func TestInterpretIdempotent(t *testing.T) {
	for _, l := range []byte("GgyruOo") {
		got, err := signalstate.InterpretComplexState(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
		again, err := signalstate.InterpretComplexState(string(got))
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestNormalize(t *testing.T) {
	groups := [][]string{{"K1"}, {"R2", "K2"}, {"K3"}}
	ov := signalstate.Override{
		Minor: map[int]struct{}{2: {}},
		Major: map[string]struct{}{},
	}
	state, err := signalstate.Normalize([]string{"r", "Go", "G"}, groups, ov)
	require.NoError(t, err)
	assert.Equal(t, "rgg", state)

	// 强制主绿灯只在亮绿灯时生效
	ov.Major["K2"] = struct{}{}
	state, err = signalstate.Normalize([]string{"r", "Go", "r"}, groups, ov)
	require.NoError(t, err)
	assert.Equal(t, "rGr", state)
	state, err = signalstate.Normalize([]string{"r", "rO", "r"}, groups, ov)
	require.NoError(t, err)
	assert.Equal(t, "rrr", state)

	_, err = signalstate.Normalize([]string{"r", "xy", "r"}, groups, ov)
	assert.ErrorIs(t, err, signalstate.ErrUnknownCombination)
}

func TestNormalizeMajorOnlyWhenGreen(t *testing.T) {
	ov := signalstate.Override{Major: map[string]struct{}{"K1": {}}}
	s, err := signalstate.Normalize([]string{"rO", "gO", "Go"}, [][]string{{"K1", "BL1"}, {"K1", "BL1"}, {"K2", "BL2"}}, ov)
	require.NoError(t, err)
	assert.Equal(t, "rGg", s)
}
