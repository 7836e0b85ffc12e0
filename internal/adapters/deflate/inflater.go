package deflate

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/iamNilotpal/recordpress/internal/core/ports"
)

// recordTail is a final, empty stored block. A sync-flushed record ends at
// a byte boundary but not at end-of-stream; appending this tail lets the
// flate reader run the record out to a clean EOF instead of stalling while
// it waits for bytes that will never arrive.
var recordTail = []byte{0x01, 0x00, 0x00, 0xff, 0xff}

// inflater is the decompress-direction stream. The flate reader is reset
// onto each record's bytes plus the tail; a record whose output does not
// fit the caller's space stays active across calls until it reads to EOF.
type inflater struct {
	fr     io.ReadCloser
	src    *bytes.Reader // Cursor over the active record's compressed bytes.
	active bool
}

func newInflater(_ *Options) (*inflater, error) {
	return &inflater{
		fr:  flate.NewReader(nil),
		src: bytes.NewReader(nil),
	}, nil
}

// Transform inflates one record into out. When no record is active the
// input is latched and a fresh stream is started over it; while a record
// is active, in is ignored and decoding continues where the previous call
// ran out of output space. Consumed counts the compressed bytes drawn off
// during this call.
func (i *inflater) Transform(in, out []byte) (consumed, written int, status ports.Status) {
	if i.fr == nil {
		return 0, 0, ports.StatusFailed
	}

	if !i.active {
		i.src.Reset(in)
		if err := i.fr.(flate.Resetter).Reset(io.MultiReader(i.src, bytes.NewReader(recordTail)), nil); err != nil {
			return 0, 0, ports.StatusFailed
		}
		i.active = true
	}

	before := i.src.Len()

	for written < len(out) {
		n, err := i.fr.Read(out[written:])
		written += n

		if err != nil {
			consumed = before - i.src.Len()
			i.active = false
			if err == io.EOF {
				return consumed, written, ports.StatusOK
			}
			return consumed, written, ports.StatusFailed
		}
	}

	// Output space exhausted with the record still open.
	return before - i.src.Len(), written, ports.StatusOutputFull
}

// Reset abandons an undrained record so the next Transform latches fresh
// input instead of continuing the stale stream.
func (i *inflater) Reset() {
	if i.fr != nil {
		i.active = false
	}
}

// End closes the stream.
func (i *inflater) End() error {
	if i.fr == nil {
		return nil
	}

	err := i.fr.Close()
	i.fr, i.src, i.active = nil, nil, false

	if err != nil {
		return fmt.Errorf("failed to end inflate stream: %w", err)
	}
	return nil
}
