package record

const (
	// ExtraCompressedSize is the slack allowed on top of the negotiated
	// maximum record size when judging inbound compressed input. It covers
	// the framing overhead a legitimate peer can add; anything beyond it is
	// rejected before the engine is touched.
	ExtraCompressedSize = 2048

	// compressHeadroom pads the single-pass compress buffer. Two times the
	// input plus this headroom always holds one sync flush of the record,
	// compressible or not, so the compress path never needs a growth loop.
	compressHeadroom = 10

	// decompressGrowth is the fixed step the decompress output buffer grows
	// by on each pass. Small fixed steps bound allocation churn without the
	// overshoot of repeated doubling.
	decompressGrowth = 512
)
