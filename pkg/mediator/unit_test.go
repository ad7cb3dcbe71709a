package mediator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

func TestUnit_ValuesAreEqual(t *testing.T) {
	a := mediator.Unit{}
	b := mediator.Unit{}

	assert.Equal(t, a, b)
	assert.True(t, a == b)
}

func TestUnit_HashesIdentically(t *testing.T) {
	// Two Unit keys collapse into one map entry
	counts := map[mediator.Unit]int{}
	counts[mediator.Unit{}]++
	counts[mediator.Unit{}]++

	assert.Len(t, counts, 1)
	assert.Equal(t, 2, counts[mediator.Unit{}])
}

func TestUnit_PrintsAsEmptyTuple(t *testing.T) {
	assert.Equal(t, "()", mediator.Unit{}.String())
	assert.Equal(t, "()", fmt.Sprintf("%v", mediator.Unit{}))
}
