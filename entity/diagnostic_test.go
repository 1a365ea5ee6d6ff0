package entity_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
)

func TestDiagnostics(t *testing.T) {
	d := entity.NewDiagnostics()
	var wg sync.WaitGroup
	for k := 0; k < 10; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Add(entity.Diagnostic{Kind: entity.DiagUnknownEndpoint, Record: "PUe"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, d.Count(entity.DiagUnknownEndpoint))
	assert.Zero(t, d.Count(entity.DiagMissingEndpoint))

	other := entity.NewDiagnostics()
	other.Add(entity.Diagnostic{Kind: entity.DiagMissingEndpoint, Record: "PUe2", Reason: "transition without from/to phase"})
	d.Merge(other)
	items := d.Items()
	assert.Len(t, items, 11)
	assert.Equal(t, "transition_missing_end(PUe2): transition without from/to phase", items[10].String())

	// Items返回副本
	items[0].Record = "changed"
	assert.Equal(t, "PUe", d.Items()[0].Record)
	d.LogAll()
}
