package pkg

import "unsafe"

const (
	KB = 1024

	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 64 * KB
)

// Arena is a bump allocator for immortal text.
// Text is copied into fixed size pages that are never freed or reused, so the
// returned strings stay valid for the life of the process.
// Arena is not safe for concurrent use.
type Arena struct {
	pageSize int
	page     []byte

	pages     int
	pageBytes uint64
	large     int
	used      uint64
}

// NewArena creates an arena that allocates pages of pageSize bytes.
func NewArena(pageSize int) *Arena {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Arena{pageSize: pageSize}
}

// Alloc copies s into the arena and returns a string backed by the copy.
func (a *Arena) Alloc(s string) string {
	n := len(s)
	if n == 0 {
		return ""
	}
	a.used += uint64(n)

	// large text gets its own allocation.
	if n > a.pageSize/4 {
		buf := make([]byte, n)
		copy(buf, s)
		a.large++
		return unsafe.String(unsafe.SliceData(buf), n)
	}

	if cap(a.page)-len(a.page) < n {
		a.page = make([]byte, 0, a.pageSize)
		a.pages++
		a.pageBytes += uint64(a.pageSize)
	}
	off := len(a.page)
	a.page = append(a.page, s...)
	return unsafe.String(&a.page[off], n)
}

// ArenaStats represents the memory held by an Arena.
type ArenaStats struct {
	Pages     int
	PageBytes uint64
	Large     int
	Used      uint64
}

// Stats returns the current statistics of the arena.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Pages:     a.pages,
		PageBytes: a.pageBytes,
		Large:     a.large,
		Used:      a.used,
	}
}
