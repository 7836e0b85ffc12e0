package record

import (
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/internal/core/ports"
	"github.com/iamNilotpal/recordpress/pkg/errors"
)

func newHandle(t *testing.T, direction domain.Direction) *Handle {
	t.Helper()

	handle, err := New(&Options{Algorithm: domain.AlgorithmDeflate, Direction: direction})
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })

	return handle
}

func repetitivePayload(size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte("abcd"[i%4])
	}
	return payload
}

func randomPayload(size int) []byte {
	rng := rand.New(rand.NewSource(42))
	payload := make([]byte, size)
	rng.Read(payload)
	return payload
}

// failingAllocator refuses allocations from the failAt-th call onwards.
type failingAllocator struct {
	calls  int
	failAt int
}

func (a *failingAllocator) Allocate(n int) ([]byte, error) {
	a.calls++
	if a.calls >= a.failAt {
		return nil, stderrors.New("allocation refused")
	}
	return make([]byte, n), nil
}

// countingEngine records whether the transform was ever reached.
type countingEngine struct {
	transforms int
}

func (e *countingEngine) Transform(in, out []byte) (int, int, ports.Status) {
	e.transforms++
	return 0, 0, ports.StatusFailed
}

func (e *countingEngine) Reset() {}

func (e *countingEngine) End() error { return nil }

// fixedOutputEngine emits an exact number of bytes, filling all offered
// output space and reporting completion only on the following call, the
// way a stream engine that has not yet observed the end of a record does.
type fixedOutputEngine struct {
	total   int
	emitted int
}

func (e *fixedOutputEngine) Transform(in, out []byte) (int, int, ports.Status) {
	if e.emitted == e.total {
		return len(in), 0, ports.StatusOK
	}

	n := min(e.total-e.emitted, len(out))
	e.emitted += n

	if n == len(out) {
		return len(in), n, ports.StatusOutputFull
	}
	return len(in), n, ports.StatusOK
}

func (e *fixedOutputEngine) Reset() {}

func (e *fixedOutputEngine) End() error { return nil }

func TestRoundTrip(t *testing.T) {
	sender := newHandle(t, domain.DirectionCompress)
	receiver := newHandle(t, domain.DirectionDecompress)

	t.Run("repetitive payload", func(t *testing.T) {
		payload := repetitivePayload(1 << 12)

		compressed, err := sender.Compress(payload, 1<<14)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload))

		plain, err := receiver.Decompress(compressed, 1<<14)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("incompressible payload", func(t *testing.T) {
		payload := randomPayload(1 << 12)

		compressed, err := sender.Compress(payload, 1<<14)
		require.NoError(t, err)

		plain, err := receiver.Decompress(compressed, 1<<14)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("empty payload", func(t *testing.T) {
		compressed, err := sender.Compress(nil, 1<<14)
		require.NoError(t, err)
		assert.NotEmpty(t, compressed) // A flush marker is always emitted.

		plain, err := receiver.Decompress(compressed, 1<<14)
		require.NoError(t, err)
		assert.Empty(t, plain)
	})

	t.Run("sequence of records on one handle pair", func(t *testing.T) {
		payloads := [][]byte{
			[]byte("first record"),
			repetitivePayload(3000),
			randomPayload(500),
			[]byte("last record"),
		}

		for _, payload := range payloads {
			compressed, err := sender.Compress(payload, 1<<14)
			require.NoError(t, err)

			plain, err := receiver.Decompress(compressed, 1<<14)
			require.NoError(t, err)
			assert.Equal(t, payload, plain)
		}
	})
}

func TestCompressBounds(t *testing.T) {
	t.Run("repetitive record fits comfortably", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		payload := repetitivePayload(1000)

		compressed, err := sender.Compress(payload, 2000)
		require.NoError(t, err)
		assert.Less(t, len(compressed), 200)

		plain, err := receiver.Decompress(compressed, 2000)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("oversized result is a hard failure", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)

		// Random data does not shrink; a 500 byte ceiling cannot hold it.
		_, err := sender.Compress(randomPayload(1000), 500)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeCompressionFailed))
	})
}

func TestDecompressBounds(t *testing.T) {
	t.Run("true size exceeding the ceiling fails", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		compressed, err := sender.Compress(repetitivePayload(1000), 1<<14)
		require.NoError(t, err)

		_, err = receiver.Decompress(compressed, 10)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
	})

	t.Run("true size just under the ceiling succeeds", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		payload := repetitivePayload(4000)

		compressed, err := sender.Compress(payload, 1<<14)
		require.NoError(t, err)

		plain, err := receiver.Decompress(compressed, 4096)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("true size equal to the ceiling succeeds", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		payload := repetitivePayload(4096)

		compressed, err := sender.Compress(payload, 1<<14)
		require.NoError(t, err)

		plain, err := receiver.Decompress(compressed, 4096)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("exact fill on a growth boundary succeeds", func(t *testing.T) {
		// The capacity sequence (2n, then +512 steps) lands exactly on the
		// ceiling while the record fills it completely: the engine reports
		// completion only on the pass after the last byte is written, and
		// that pass must still be granted.
		handle := &Handle{
			algorithm: domain.AlgorithmDeflate,
			engine:    &fixedOutputEngine{total: 2048},
			alloc:     heapAllocator{},
		}

		plain, err := handle.Decompress(make([]byte, 256), 2048)
		require.NoError(t, err)
		assert.Len(t, plain, 2048)
	})

	t.Run("growth stops at the ceiling instead of truncating", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		compressed, err := sender.Compress(repetitivePayload(6000), 1<<14)
		require.NoError(t, err)

		_, err = receiver.Decompress(compressed, 4096)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
	})

	t.Run("handle accepts a fresh record after a rejected one", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		receiver := newHandle(t, domain.DirectionDecompress)

		oversized, err := sender.Compress(repetitivePayload(6000), 1<<14)
		require.NoError(t, err)

		_, err = receiver.Decompress(oversized, 4096)
		require.Error(t, err)

		payload := []byte("next record on the same stream")

		compressed, err := sender.Compress(payload, 1<<14)
		require.NoError(t, err)

		plain, err := receiver.Decompress(compressed, 1<<14)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	})

	t.Run("corrupt input fails", func(t *testing.T) {
		receiver := newHandle(t, domain.DirectionDecompress)

		_, err := receiver.Decompress([]byte{0xff, 0xff, 0xff, 0xff}, 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
	})
}

func TestBombRejection(t *testing.T) {
	engine := &countingEngine{}
	handle := &Handle{
		algorithm: domain.AlgorithmDeflate,
		engine:    engine,
		alloc:     heapAllocator{},
	}

	maxRecordSize := 1024
	oversized := make([]byte, maxRecordSize+ExtraCompressedSize+1)

	_, err := handle.Decompress(oversized, maxRecordSize)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
	assert.Zero(t, engine.transforms, "oversized input must be rejected before the engine is touched")

	// One byte less is within the slack and reaches the engine.
	_, err = handle.Decompress(oversized[:maxRecordSize+ExtraCompressedSize], maxRecordSize)
	require.Error(t, err)
	assert.Equal(t, 1, engine.transforms)
}

func TestAllocationFailure(t *testing.T) {
	t.Run("compress", func(t *testing.T) {
		handle, err := New(&Options{
			Algorithm: domain.AlgorithmDeflate,
			Direction: domain.DirectionCompress,
			Allocator: &failingAllocator{failAt: 1},
		})
		require.NoError(t, err)
		defer handle.Close()

		_, err = handle.Compress(repetitivePayload(100), 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeOutOfMemory))
	})

	t.Run("decompress first allocation", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)
		compressed, err := sender.Compress(repetitivePayload(2000), 1<<14)
		require.NoError(t, err)

		receiver, err := New(&Options{
			Algorithm: domain.AlgorithmDeflate,
			Direction: domain.DirectionDecompress,
			Allocator: &failingAllocator{failAt: 1},
		})
		require.NoError(t, err)
		defer receiver.Close()

		_, err = receiver.Decompress(compressed, 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeOutOfMemory))
	})

	t.Run("decompress mid growth", func(t *testing.T) {
		sender := newHandle(t, domain.DirectionCompress)

		// 2000 repetitive bytes compress small enough that the initial
		// buffer cannot hold the plaintext, forcing a second allocation.
		compressed, err := sender.Compress(repetitivePayload(2000), 1<<14)
		require.NoError(t, err)

		receiver, err := New(&Options{
			Algorithm: domain.AlgorithmDeflate,
			Direction: domain.DirectionDecompress,
			Allocator: &failingAllocator{failAt: 2},
		})
		require.NoError(t, err)
		defer receiver.Close()

		_, err = receiver.Decompress(compressed, 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeOutOfMemory))
	})
}

func TestHandleLifecycle(t *testing.T) {
	t.Run("close is idempotent", func(t *testing.T) {
		handle := newHandle(t, domain.DirectionCompress)
		require.NoError(t, handle.Close())
		require.NoError(t, handle.Close())
	})

	t.Run("close on nil handle", func(t *testing.T) {
		var handle *Handle
		require.NoError(t, handle.Close())
	})

	t.Run("operations after close fail with invalid handle", func(t *testing.T) {
		handle := newHandle(t, domain.DirectionCompress)
		require.NoError(t, handle.Close())

		_, err := handle.Compress([]byte("data"), 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidHandle))
	})

	t.Run("operations on nil handle fail with invalid handle", func(t *testing.T) {
		var handle *Handle

		_, err := handle.Compress([]byte("data"), 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidHandle))

		_, err = handle.Decompress([]byte("data"), 1<<14)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidHandle))
	})

	t.Run("none algorithm carries no engine state", func(t *testing.T) {
		handle, err := New(&Options{Algorithm: domain.AlgorithmNone, Direction: domain.DirectionCompress})
		require.NoError(t, err)
		assert.Equal(t, domain.AlgorithmNone, handle.Algorithm())
		assert.Nil(t, handle.engine)

		// Routing a record through a none handle is a contract violation
		// and reports an invalid handle rather than corrupting anything.
		_, err = handle.Compress([]byte("data"), 1<<14)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidHandle))

		require.NoError(t, handle.Close())
	})
}

func TestValidate(t *testing.T) {
	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := New(&Options{Algorithm: domain.Algorithm(99), Direction: domain.DirectionCompress})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unsupported direction", func(t *testing.T) {
		_, err := New(&Options{Algorithm: domain.AlgorithmDeflate, Direction: domain.Direction(99)})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("out of range level", func(t *testing.T) {
		_, err := New(&Options{Algorithm: domain.AlgorithmDeflate, Direction: domain.DirectionCompress, Level: 12})
		require.Error(t, err)

		verr := errors.AsValidationError(err)
		require.NotNil(t, verr)
		assert.Equal(t, "level", verr.Field)
	})

	t.Run("nil options use defaults", func(t *testing.T) {
		handle, err := New(nil)
		require.NoError(t, err)
		assert.Equal(t, domain.AlgorithmNone, handle.Algorithm())
		require.NoError(t, handle.Close())
	})
}
