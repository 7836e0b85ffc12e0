// Package record implements the bounded payload transform of the record
// layer: outbound records are compressed in a single fixed-bound pass,
// inbound records are decompressed through a capped growth loop so an
// attacker-supplied compressed size can never dictate memory use.
package record

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iamNilotpal/recordpress/internal/adapters/deflate"
	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/internal/core/ports"
	"github.com/iamNilotpal/recordpress/pkg/errors"
)

const (
	opInit       = "init"
	opCompress   = "compress"
	opDecompress = "decompress"
)

var (
	errNilHandle       = stderrors.New("handle is nil or closed")
	errNoEngine        = stderrors.New("handle has no engine state")
	errInputUnconsumed = stderrors.New("engine left input unconsumed")
)

// Handle owns one direction of a connection's compression context. It
// carries the engine's streaming state across records, so a handle must
// only be driven by one goroutine and only for the direction it was built
// for; both are construction-time contracts, not runtime checks.
type Handle struct {
	algorithm domain.Algorithm
	engine    ports.StreamEngine // Absent when algorithm is None.
	alloc     ports.Allocator
	log       *zap.SugaredLogger
}

// New builds a handle for one connection direction. For AlgorithmNone the
// handle carries no engine state: the surrounding layer passes such
// records through untouched and never routes them here. For the deflate
// family the engine parameters are resolved from the algorithm table,
// with the level overridable through the options.
func New(opts *Options) (*Handle, error) {
	if opts == nil {
		opts = &Options{}
	}

	opts = prepareDefaults(opts)
	if err := Validate(opts); err != nil {
		return nil, err
	}

	handle := Handle{
		algorithm: opts.Algorithm,
		alloc:     opts.Allocator,
		log:       opts.Logger,
	}

	if opts.Algorithm == domain.AlgorithmNone {
		return &handle, nil
	}

	params, _ := domain.DeflateParams(opts.Algorithm)
	if opts.Level != 0 {
		params.Level = opts.Level
	}

	engine, err := deflate.New(opts.Direction, &deflate.Options{
		Level:      params.Level,
		WindowBits: params.WindowBits,
		MemLevel:   params.MemLevel,
	})
	if err != nil {
		return nil, errors.NewRecordError(errors.CodeEngineInitFailed, opInit, err)
	}

	handle.engine = engine
	return &handle, nil
}

// Algorithm returns the algorithm the handle was built for.
func (h *Handle) Algorithm() domain.Algorithm {
	if h == nil {
		return domain.AlgorithmNone
	}
	return h.algorithm
}

// Close tears down the handle's engine state. Safe on a nil or already
// closed handle so the record layer can tear down unconditionally. The
// engine's own end status is not treated as a failure: pending-data
// warnings at teardown are deliberately ignored.
func (h *Handle) Close() error {
	if h == nil || h.engine == nil {
		return nil
	}

	_ = h.engine.End()
	h.engine = nil
	return nil
}

// Compress transforms one plaintext record in a single pass. The output
// buffer is sized at twice the input plus a fixed headroom, which always
// holds one sync flush of a deflate-family stream, so the engine must
// report success and consume the whole input in one call. A result larger
// than maxCompressedSize is a hard failure, never a truncation.
func (h *Handle) Compress(plain []byte, maxCompressedSize int) ([]byte, error) {
	if h == nil || h.engine == nil {
		return nil, h.invalidHandle(opCompress)
	}

	out, err := h.alloc.Allocate(2*len(plain) + compressHeadroom)
	if err != nil {
		return nil, errors.NewRecordError(errors.CodeOutOfMemory, opCompress, err)
	}

	consumed, written, status := h.engine.Transform(plain, out)
	if status != ports.StatusOK {
		h.engine.Reset()
		return nil, errors.NewRecordError(errors.CodeCompressionFailed, opCompress,
			fmt.Errorf("engine status %v", status))
	}
	if consumed != len(plain) {
		h.engine.Reset()
		return nil, errors.NewRecordError(errors.CodeCompressionFailed, opCompress, errInputUnconsumed)
	}

	if written > maxCompressedSize {
		return nil, errors.NewRecordError(errors.CodeCompressionFailed, opCompress,
			fmt.Errorf("compressed size %d exceeds maximum %d", written, maxCompressedSize))
	}

	if h.log != nil && len(plain) > 0 {
		h.log.Debugw("compressed record",
			"plain", len(plain), "compressed", written,
			"ratio", float64(written)/float64(len(plain)),
		)
	}

	return out[:written], nil
}

// Decompress restores one compressed record. Input larger than the
// negotiated maximum plus a fixed slack is rejected before the engine is
// touched. The output buffer starts at twice the compressed size and
// grows in fixed steps, capped at the protocol ceiling: the expansion
// ratio of a compressed record is attacker-controlled, so growth stops
// at maxRecordSize no matter what the engine would accept. Only a record
// that decompresses to at most maxRecordSize is ever returned.
func (h *Handle) Decompress(compressed []byte, maxRecordSize int) ([]byte, error) {
	if h == nil || h.engine == nil {
		return nil, h.invalidHandle(opDecompress)
	}

	if len(compressed) > maxRecordSize+ExtraCompressedSize {
		return nil, errors.NewRecordError(errors.CodeDecompressionFailed, opDecompress,
			fmt.Errorf("compressed size %d exceeds maximum %d", len(compressed), maxRecordSize+ExtraCompressedSize))
	}

	var (
		out       []byte
		pos       int
		status    ports.Status
		remaining = compressed
		capacity  = 2 * len(compressed)
	)

	for {
		capacity += decompressGrowth

		grown, err := h.alloc.Allocate(capacity)
		if err != nil {
			h.engine.Reset()
			return nil, errors.NewRecordError(errors.CodeOutOfMemory, opDecompress, err)
		}
		copy(grown, out[:pos])
		out = grown

		var consumed, written int
		consumed, written, status = h.engine.Transform(remaining, out[pos:capacity])
		remaining = remaining[consumed:]
		pos += written

		// An exact fill at the ceiling still needs one more pass for the
		// engine to report completion, so growth is allowed at, but never
		// beyond, the maximum.
		if (status == ports.StatusOutputFull && pos == capacity && capacity <= maxRecordSize) ||
			(status == ports.StatusOK && len(remaining) != 0) {
			continue
		}
		break
	}

	if status != ports.StatusOK {
		h.engine.Reset()
		return nil, errors.NewRecordError(errors.CodeDecompressionFailed, opDecompress,
			fmt.Errorf("engine status %v", status))
	}

	// The loop may overshoot while sizing the buffer; the payload itself
	// must still respect the ceiling.
	if pos > maxRecordSize {
		return nil, errors.NewRecordError(errors.CodeDecompressionFailed, opDecompress,
			fmt.Errorf("decompressed size %d exceeds maximum %d", pos, maxRecordSize))
	}

	return out[:pos], nil
}

func (h *Handle) invalidHandle(operation string) error {
	if h == nil {
		return errors.NewRecordError(errors.CodeInvalidHandle, operation, errNilHandle)
	}
	return errors.NewRecordError(errors.CodeInvalidHandle, operation, errNoEngine)
}
