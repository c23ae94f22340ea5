package core

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs for calls and entities.
type IDGenerator interface {
	// Generate an ID.
	Generate() string
}

// NewXIDGenerator returns the default generator, producing globally unique
// IDs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

// NewSequentialIDGenerator returns a generator that produces deterministic
// sequential IDs, mainly for tests and recordings that diff across runs.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.nextID, 1), 10)
}
