// Package deflate adapts the deflate-family stream compression engine to
// the StreamEngine port. Each record is emitted with a sync flush so the
// peer can decode it without waiting for more data, and each record is
// coded against a fresh history window so both directions stay in step
// without a zlib-style push interface.
package deflate

import (
	"fmt"

	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/internal/core/ports"
	"github.com/iamNilotpal/recordpress/pkg/pool"
)

// Options carries the resolved engine parameters for one stream.
// Compression streams use all three; decompression streams only need the
// window size.
type Options struct {
	Level      int // Compression effort (1-9). Unused when inflating.
	WindowBits int // History window as a power of two (9-15).
	MemLevel   int // Engine memory usage (1-9). Unused when inflating.
}

// Parameter bounds accepted by the engine. These mirror the ranges the
// deflate format itself defines; out-of-range values are a negotiation
// bug upstream, not something to clamp silently.
const (
	MinLevel      = 1
	MaxLevel      = 9
	MinWindowBits = 9
	MaxWindowBits = 15
	MinMemLevel   = 1
	MaxMemLevel   = 9
)

// Scratch buffers for draining flushed records out of the compressor.
// Shared across all streams in the process.
var scratchPool = pool.NewBufferPool(4096)

// DefaultOptions returns the engine parameters from the algorithm table
// for the standard deflate method.
func DefaultOptions() *Options {
	params, _ := domain.DeflateParams(domain.AlgorithmDeflate)
	return &Options{
		Level:      params.Level,
		WindowBits: params.WindowBits,
		MemLevel:   params.MemLevel,
	}
}

// Validate checks that the resolved parameters are inside the ranges the
// deflate format allows.
func Validate(input *Options) error {
	if input.Level < MinLevel || input.Level > MaxLevel {
		return fmt.Errorf("compression level must be between %d and %d, got %d", MinLevel, MaxLevel, input.Level)
	}

	if input.WindowBits < MinWindowBits || input.WindowBits > MaxWindowBits {
		return fmt.Errorf("window bits must be between %d and %d, got %d", MinWindowBits, MaxWindowBits, input.WindowBits)
	}

	if input.MemLevel < MinMemLevel || input.MemLevel > MaxMemLevel {
		return fmt.Errorf("memory level must be between %d and %d, got %d", MinMemLevel, MaxMemLevel, input.MemLevel)
	}

	return nil
}

// New builds a stream engine for one direction of a connection.
// Returns an error when the parameters are invalid or the underlying
// engine rejects them.
func New(direction domain.Direction, opts *Options) (ports.StreamEngine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	switch direction {
	case domain.DirectionCompress:
		return newDeflater(opts)
	case domain.DirectionDecompress:
		return newInflater(opts)
	default:
		return nil, fmt.Errorf("unsupported direction: %d", direction)
	}
}
