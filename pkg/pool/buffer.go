package pool

import (
	"bytes"
	"sync"
)

// BufferPool manages reusable scratch buffers for compression engines.
// A deflate stream drains each flushed record through a scratch buffer;
// pooling them bounds allocation churn across connections.
type BufferPool struct {
	size int       // Starting capacity of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// NewBufferPool creates a pool whose buffers start at the given capacity.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, size))
			},
		},
	}
}

// Get retrieves a clean buffer from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool. Buffers that grew far beyond the
// pool's base size are dropped instead of being retained.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > bp.size*4 {
		return
	}

	buf.Reset()
	bp.pool.Put(buf)
}
