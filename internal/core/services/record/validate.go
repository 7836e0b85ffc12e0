package record

import (
	"fmt"

	"github.com/iamNilotpal/recordpress/internal/adapters/deflate"
	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/pkg/errors"
)

// Validate checks handle options before any engine state is built.
func Validate(opts *Options) error {
	switch opts.Algorithm {
	case domain.AlgorithmNone, domain.AlgorithmDeflate:
	default:
		return errors.NewValidationError(
			"algorithm", opts.Algorithm,
			fmt.Errorf("unsupported compression algorithm: %d", opts.Algorithm),
		)
	}

	switch opts.Direction {
	case domain.DirectionCompress, domain.DirectionDecompress:
	default:
		return errors.NewValidationError(
			"direction", opts.Direction,
			fmt.Errorf("unsupported direction: %d", opts.Direction),
		)
	}

	if opts.Level != 0 && (opts.Level < deflate.MinLevel || opts.Level > deflate.MaxLevel) {
		return errors.NewValidationError(
			"level", opts.Level,
			fmt.Errorf("compression level must be between %d and %d, got %d", deflate.MinLevel, deflate.MaxLevel, opts.Level),
		)
	}

	return nil
}
