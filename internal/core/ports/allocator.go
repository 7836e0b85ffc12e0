package ports

// Allocator hands out the output buffers the record transform grows into.
// Allocation is fallible: an implementation may refuse a request, and the
// transform treats that as a normal, locally handled error rather than a
// fatal condition. This is also the seam tests use to exercise the
// allocation-failure paths.
type Allocator interface {
	// Allocate returns a zeroed byte slice of length n.
	Allocate(n int) ([]byte, error)
}
