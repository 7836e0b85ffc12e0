package record

import (
	"go.uber.org/zap"

	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/internal/core/ports"
)

// Options configures one handle. Algorithm and Direction come from the
// handshake; everything else is optional.
type Options struct {
	// Algorithm is the negotiated compression method.
	Algorithm domain.Algorithm

	// Direction selects the side of the transform this handle serves.
	Direction domain.Direction

	// Level overrides the compression level from the algorithm table when
	// non-zero. Ignored for the decompress direction.
	Level int

	// Logger, when present, receives debug diagnostics such as per-record
	// compression ratios. Never used to report failures.
	Logger *zap.SugaredLogger

	// Allocator supplies output buffers. Defaults to the heap.
	Allocator ports.Allocator
}
