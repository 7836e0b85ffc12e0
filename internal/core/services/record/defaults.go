package record

// heapAllocator is the default allocator. On the Go runtime an allocation
// either succeeds or the process dies, so it never returns an error;
// fallible behavior comes from injected allocators.
type heapAllocator struct{}

func (heapAllocator) Allocate(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func prepareDefaults(opts *Options) *Options {
	if opts.Allocator == nil {
		opts.Allocator = heapAllocator{}
	}
	return opts
}
