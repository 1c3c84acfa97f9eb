package pkg

import (
	"math"
	"sync"
	"sync/atomic"
)

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1

	// MaxSlots is the largest number of slots a Store can hold.
	MaxSlots = math.MaxUint32
)

// Slot is the immortal record of one interned text.
// A slot is fully written before its id is handed out and never changes afterwards.
type Slot struct {
	Text string
	Hash uint64
	next uint32 // id+1 of the next slot sharing this slot's key, 0 ends the chain.
}

type chunk [chunkSize]Slot

// Store is an append-only slot store addressed by dense uint32 ids.
// Reads are lock-free; chunks never move once allocated.
type Store struct {
	limit     uint64
	reserved  atomic.Uint64
	committed atomic.Uint64

	mu  sync.Mutex // guards directory growth
	dir atomic.Pointer[[]*chunk]
}

// NewStore returns a store holding at most limit slots.
// A zero limit means MaxSlots.
func NewStore(limit uint32) *Store {
	if limit == 0 {
		limit = MaxSlots
	}
	s := &Store{limit: uint64(limit)}
	dir := make([]*chunk, 0, 8)
	s.dir.Store(&dir)
	return s
}

// Append stores a new slot and returns its id. next is the id of the
// slot this one chains to when hasNext is true.
// It returns false once the store is full.
func (s *Store) Append(text string, hash uint64, next uint32, hasNext bool) (uint32, bool) {
	n := s.reserved.Add(1)
	if n > s.limit {
		s.reserved.Add(^uint64(0))
		return 0, false
	}
	id := uint32(n - 1)

	slot := &s.chunkFor(id)[id&chunkMask]
	slot.Text = text
	slot.Hash = hash
	if hasNext {
		slot.next = next + 1
	}
	s.committed.Add(1)
	return id, true
}

// chunkFor returns the chunk holding id, allocating it if needed.
func (s *Store) chunkFor(id uint32) *chunk {
	ci := int(id >> chunkBits)
	if dir := *s.dir.Load(); ci < len(dir) {
		return dir[ci]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := *s.dir.Load()
	if ci < len(dir) {
		return dir[ci]
	}
	// copy on write, readers may hold the old directory.
	grown := make([]*chunk, ci+1, max(ci+1, 2*cap(dir)))
	copy(grown, dir)
	for i := len(dir); i <= ci; i++ {
		grown[i] = new(chunk)
	}
	s.dir.Store(&grown)
	return grown[ci]
}

// Get returns the slot for id. id must come from Append.
func (s *Store) Get(id uint32) *Slot {
	dir := *s.dir.Load()
	return &dir[id>>chunkBits][id&chunkMask]
}

// Next returns the id the slot chains to.
func (s *Store) Next(id uint32) (uint32, bool) {
	next := s.Get(id).next
	return next - 1, next != 0
}

// Len returns the number of committed slots.
func (s *Store) Len() int {
	return int(s.committed.Load())
}

// Chunks returns the number of allocated chunks.
func (s *Store) Chunks() int {
	return len(*s.dir.Load())
}
