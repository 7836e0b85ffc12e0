package domain

// Algorithm identifies the compression method negotiated for a connection.
// The record layer only ever sees None or a deflate-family algorithm; which
// one applies is decided during the handshake, outside this module.
type Algorithm int

const (
	// AlgorithmNone disables payload compression. Records pass through the
	// surrounding layer untouched and never reach the transform itself.
	AlgorithmNone Algorithm = iota

	// AlgorithmDeflate is the deflate-family stream compression method.
	// Each record is emitted with a full flush so the peer can decode it
	// without waiting for further data.
	AlgorithmDeflate
)

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmDeflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// Direction selects which side of the transform a handle serves.
// A handle built for one direction must never be used for the other;
// this is a construction-time contract, not a runtime check.
type Direction int

const (
	// DirectionCompress transforms outbound plaintext records.
	DirectionCompress Direction = iota

	// DirectionDecompress restores inbound compressed records.
	DirectionDecompress
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionCompress:
		return "compress"
	case DirectionDecompress:
		return "decompress"
	default:
		return "unknown"
	}
}

// DeflateParameters holds the engine parameters resolved for a
// deflate-family algorithm. They arrive here as already-agreed integers;
// negotiation happens in the handshake layer.
type DeflateParameters struct {
	WindowBits int // Size of the history window as a power of two (9-15).
	MemLevel   int // Internal engine memory usage (1-9).
	Level      int // Compression effort (1-9).
}

// Static parameter table for the supported algorithms. Window and memory
// settings match the deflate defaults used by TLS record compression.
var deflateParameters = map[Algorithm]DeflateParameters{
	AlgorithmDeflate: {WindowBits: 15, MemLevel: 8, Level: 6},
}

// DeflateParams resolves the engine parameters for an algorithm.
// The second return value reports whether the algorithm has a
// deflate-family parameter set at all.
func DeflateParams(a Algorithm) (DeflateParameters, bool) {
	params, ok := deflateParameters[a]
	return params, ok
}
