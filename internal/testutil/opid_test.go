package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceOpIDGenerator(t *testing.T) {
	gen := NewSequenceOpIDGenerator("")
	assert.Equal(t, "test-op-1", gen.Generate())
	assert.Equal(t, "test-op-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "test-op-1", gen.Generate())

	named := NewSequenceOpIDGenerator("scenario")
	assert.Equal(t, "scenario-1", named.Generate())
}
