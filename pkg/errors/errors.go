package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the failures the record compression layer can
// produce. The set is exhaustive: callers map these codes to transport
// level consequences (typically fatal alerts), this package has no
// opinion on that.
type ErrorCode int

const (
	// CodeOutOfMemory indicates an allocation failure during handle
	// construction, compression or decompression. Any partially acquired
	// buffers were released before the error was returned.
	CodeOutOfMemory ErrorCode = iota + 1

	// CodeEngineInitFailed indicates the underlying engine rejected the
	// resolved algorithm parameters while the handle was being built.
	CodeEngineInitFailed

	// CodeCompressionFailed indicates the engine reported a failure while
	// compressing, left input unconsumed, or the compressed record did not
	// fit the negotiated maximum size.
	CodeCompressionFailed

	// CodeDecompressionFailed indicates the compressed input exceeded the
	// upfront size bound, the engine reported a failure while inflating, or
	// the decompressed record exceeded the negotiated maximum size.
	CodeDecompressionFailed

	// CodeInvalidHandle indicates an operation was invoked on a nil, closed
	// or engine-less handle where an active one was required.
	CodeInvalidHandle
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	switch c {
	case CodeOutOfMemory:
		return "out-of-memory"
	case CodeEngineInitFailed:
		return "engine-init-failed"
	case CodeCompressionFailed:
		return "compression-failed"
	case CodeDecompressionFailed:
		return "decompression-failed"
	case CodeInvalidHandle:
		return "invalid-handle"
	default:
		return "unknown"
	}
}

// RecordError is the typed failure returned by every record layer
// operation. Code carries the classification, Operation names the call
// that failed, and Err holds the underlying cause when one exists.
type RecordError struct {
	Err       error
	Operation string
	Code      ErrorCode
}

// NewRecordError creates a RecordError for the given operation.
func NewRecordError(code ErrorCode, operation string, err error) *RecordError {
	return &RecordError{Code: code, Operation: operation, Err: err}
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%v] %s: %v", e.Code, e.Operation, e.Err)
	}
	return fmt.Sprintf("[%v] %s", e.Code, e.Operation)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is a RecordError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var re *RecordError
	return errors.As(err, &re) && re.Code == code
}

// AsRecordError attempts to extract a RecordError from a given error.
func AsRecordError(err error) *RecordError {
	var re *RecordError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
