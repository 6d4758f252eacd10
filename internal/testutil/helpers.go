package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"
	xrand "golang.org/x/exp/rand"
)

// NewMapRNG creates a deterministic generator stream for map tests
func NewMapRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSearchRNG creates a deterministic stream for randomized strategies
func NewSearchRNG(seed uint64) *xrand.Rand {
	return xrand.New(xrand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}
