package testutil

import (
	"fmt"
	"sync"
)

// SequenceOpIDGenerator returns "<prefix>-1", "<prefix>-2", ... in order.
//
// This keeps engine log output identical across test runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceOpIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceOpIDGenerator creates a generator. An empty prefix defaults to "test-op".
func NewSequenceOpIDGenerator(prefix string) *SequenceOpIDGenerator {
	if prefix == "" {
		prefix = "test-op"
	}
	return &SequenceOpIDGenerator{prefix: prefix}
}

// Generate returns the next op id.
//
// Implements engine.OpIDGenerator interface.
func (g *SequenceOpIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequenceOpIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
