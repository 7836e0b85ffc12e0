package ports

// Status is the vocabulary a stream engine reports after a transform step.
// Callers drive their buffer management off these three values; any
// engine-internal detail beyond them is deliberately opaque.
type Status int

const (
	// StatusOK means the step completed: every input byte that could be
	// processed was processed and the output written so far is final.
	StatusOK Status = iota

	// StatusOutputFull means the engine filled the supplied output space
	// and has more to emit. The caller must come back with fresh space.
	StatusOutputFull

	// StatusFailed covers every other engine condition - corrupt input,
	// a torn-down stream, an internal engine error. Not retryable.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusOutputFull:
		return "output-full"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StreamEngine is one direction of a stateful compression stream.
// An engine carries internal state across calls within a connection, so a
// single engine must only ever be driven by one goroutine.
type StreamEngine interface {
	// Transform consumes bytes from in and writes transformed bytes to out,
	// flushing to a byte boundary so the result is independently decodable.
	// It reports how much of in was consumed, how much of out was written,
	// and the engine status. When a previous call returned StatusOutputFull
	// the next call continues the same record; in is only examined when a
	// new record begins.
	Transform(in, out []byte) (consumed, written int, status Status)

	// Reset abandons a record left mid-transform, so a caller that gave up
	// on a record partway through can start a fresh one instead of silently
	// continuing the stale stream. No-op when nothing is pending or the
	// stream has ended.
	Reset()

	// End tears down the stream and releases engine resources. Pending-data
	// conditions at teardown surface in the returned error but are safe for
	// callers to ignore. The engine must not be used afterwards.
	End() error
}
