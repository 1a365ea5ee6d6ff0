package utils_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils"
)

func TestFind(t *testing.T) {
	data := []string{"P1", "P2", "P3"}
	m := lo.KeyBy(data, func(s string) string { return s })
	ok, failed := utils.Find(m, data, []string{"P3", "P9", "P1"})
	assert.Equal(t, []string{"P3", "P1"}, ok)
	assert.Equal(t, []string{"P9"}, failed)

	all, failed := utils.Find(m, data, nil)
	assert.Equal(t, data, all)
	assert.Empty(t, failed)
}
