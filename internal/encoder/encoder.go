// Package encoder holds the catalog of encoder capabilities the harness can
// exercise: a stable identity (name, codec, description), an availability
// probe, and the encode operation itself. Concrete adapters shell out to the
// tool families (GStreamer, Vulkan Video Samples) through internal/command.
package encoder

import (
	"context"
	"sync"
	"time"
)

// Encoder is one encoder capability under test.
type Encoder interface {
	// Name returns the unique, stable identifier used in reports and on
	// the command line.
	Name() string

	// Codec returns the compressed format this encoder produces.
	Codec() Codec

	// Description returns a human-readable summary for listings.
	Description() string

	// Check reports whether the encoder can run on this host. The probe
	// runs once per instance; later calls return the cached verdict.
	Check(ctx context.Context, verbose bool) bool

	// Encode transcodes inputFile into the Y4M outputFile. It returns
	// command.ErrTimeout when the deadline expires and a wrapped
	// exec.ErrNotFound when the tool binary is missing.
	Encode(ctx context.Context, inputFile, outputFile string, timeout time.Duration, verbose bool) error
}

// probeTimeout bounds availability probes so a wedged driver cannot stall
// encoder matching.
const probeTimeout = 10 * time.Second

// checkCache memoizes an availability probe. Concurrent callers block until
// the single probe finishes and all see the same verdict.
type checkCache struct {
	once sync.Once
	ok   bool
}

func (c *checkCache) run(probe func() bool) bool {
	c.once.Do(func() {
		c.ok = probe()
	})
	return c.ok
}
