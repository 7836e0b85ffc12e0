package deflate

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/iamNilotpal/recordpress/internal/core/ports"
)

// deflater is the compress-direction stream. The flate writer emits into a
// pooled scratch buffer; Transform flushes one whole record into it and
// then drains it into the caller's output space.
type deflater struct {
	fw      *flate.Writer
	scratch *bytes.Buffer
}

func newDeflater(opts *Options) (*deflater, error) {
	scratch := scratchPool.Get()

	fw, err := flate.NewWriter(scratch, opts.Level)
	if err != nil {
		scratchPool.Put(scratch)
		return nil, fmt.Errorf("failed to create deflate stream: %w", err)
	}

	return &deflater{fw: fw, scratch: scratch}, nil
}

// Transform compresses one record. A call with an empty scratch buffer
// starts a new record: the input is written and sync-flushed in full.
// If the output space cannot hold the whole flushed record the remainder
// stays in the scratch buffer and the status is StatusOutputFull; the
// next call continues draining and does not examine in.
func (d *deflater) Transform(in, out []byte) (consumed, written int, status ports.Status) {
	if d.fw == nil {
		return 0, 0, ports.StatusFailed
	}

	if d.scratch.Len() == 0 {
		// New record. Reset the stream so every record codes against a
		// fresh window and decodes independently of its predecessors.
		d.scratch.Reset()
		d.fw.Reset(d.scratch)

		if _, err := d.fw.Write(in); err != nil {
			return 0, 0, ports.StatusFailed
		}
		if err := d.fw.Flush(); err != nil {
			return 0, 0, ports.StatusFailed
		}

		consumed = len(in)
	}

	written = copy(out, d.scratch.Bytes())
	d.scratch.Next(written)

	if d.scratch.Len() > 0 {
		return consumed, written, ports.StatusOutputFull
	}
	return consumed, written, ports.StatusOK
}

// Reset discards any partially drained record. Records code against
// per-record windows, so no cross-record state is lost.
func (d *deflater) Reset() {
	if d.fw != nil {
		d.scratch.Reset()
	}
}

// End closes the stream and returns the scratch buffer to the pool.
func (d *deflater) End() error {
	if d.fw == nil {
		return nil
	}

	err := d.fw.Close()
	scratchPool.Put(d.scratch)
	d.fw, d.scratch = nil, nil

	if err != nil {
		return fmt.Errorf("failed to end deflate stream: %w", err)
	}
	return nil
}
