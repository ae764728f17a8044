package http

// Arena is a per-request bump allocator. It hands out []byte slices backed by
// a pre-allocated slab; once the slab is exhausted it falls back to plain
// heap allocations recorded in overflow. Reset discards the cursor and the
// overflow list in one step instead of freeing allocations individually,
// mirroring the bulk-free behavior of the build-tagged arena helpers in
// MiraiMindz-watt/arena.go and arena_pool.go, without depending on the
// GOEXPERIMENT=arenas runtime feature those use.
type Arena struct {
	slab     []byte
	offset   int
	overflow [][]byte
}

// NewArena allocates a slab-backed arena of the given size.
func NewArena(slabSize int) *Arena {
	return &Arena{slab: make([]byte, slabSize)}
}

// Alloc returns a zeroed []byte of length n. It is only valid until the next
// Reset.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if a.offset+n <= len(a.slab) {
		b := a.slab[a.offset : a.offset+n : a.offset+n]
		a.offset += n
		return b
	}

	b := make([]byte, n)
	a.overflow = append(a.overflow, b)
	return b
}

// Reset discards all allocations made since the last Reset. The slab's
// backing memory is kept and reused; overflow allocations are dropped for
// the garbage collector to reclaim.
func (a *Arena) Reset() {
	a.offset = 0
	if len(a.overflow) > 0 {
		a.overflow = a.overflow[:0]
	}
}
