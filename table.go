package atom

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/swiss"
	"github.com/xgzlucario/atom/internal/hash"
	"github.com/xgzlucario/atom/internal/pkg"
)

// key indexes a shard. It hashes the whole text; texts with equal keys
// are chained through their slots and told apart by full comparison.
type key struct {
	hash uint64
	len  int
}

// table is the intern table. It never removes a slot.
type table struct {
	options Options
	mask    uint32
	shards  []*shard
	slots   *pkg.Store
	alloc   *pkg.Allocator[key, uint32]
	hashFn  func(string) uint64
}

// shard is a lock partition of the table.
type shard struct {
	sync.RWMutex
	index *swiss.Map[key, uint32]
	arena *pkg.Arena

	hits, misses atomic.Uint64
}

func newTable(options Options, slots *pkg.Store) *table {
	t := &table{
		options: options,
		mask:    options.ShardCount - 1,
		shards:  make([]*shard, options.ShardCount),
		slots:   slots,
		alloc:   pkg.NewAllocator[key, uint32](),
		hashFn:  hash.String,
	}
	size := max(options.Capacity/int(options.ShardCount), 8)
	for i := range t.shards {
		t.shards[i] = &shard{
			index: swiss.New(size, swiss.WithAllocator(t.alloc)),
			arena: pkg.NewArena(options.PageSize),
		}
	}
	// slot 0 is the empty string, so the zero Atom is valid.
	t.intern("")

	logger.Debug().
		Uint32("shards", options.ShardCount).
		Int("capacity", options.Capacity).
		Int("pageSize", options.PageSize).
		Msg("intern table initialized")
	return t
}

func (t *table) getShard(k key) *shard {
	return t.shards[uint32(k.hash)&t.mask]
}

func (t *table) key(text string) key {
	return key{hash: t.hashFn(text), len: len(text)}
}

// intern returns the slot id for text, creating the slot on first use.
// text is copied before it is stored, so it may alias mutable memory.
func (t *table) intern(text string) uint32 {
	k := t.key(text)
	s := t.getShard(k)

	s.RLock()
	id, ok := s.find(t.slots, k, text)
	s.RUnlock()
	if ok {
		s.hits.Add(1)
		return id
	}
	return t.insert(s, k, text)
}

// insert re-checks under the write lock, so racing callers
// for the same text all get the one slot created here.
func (t *table) insert(s *shard, k key, text string) uint32 {
	s.Lock()
	defer s.Unlock()

	if id, ok := s.find(t.slots, k, text); ok {
		s.hits.Add(1)
		return id
	}
	s.misses.Add(1)

	head, chained := s.index.Get(k)
	id, ok := t.slots.Append(s.arena.Alloc(text), hash.Key(text), head, chained)
	if !ok {
		logger.Error().Int("atoms", t.slots.Len()).Msg("no slot left for new atom")
		panic(ErrTableFull)
	}
	s.index.Put(k, id)
	return id
}

// lookup returns the slot id for text without creating it.
func (t *table) lookup(text string) (uint32, bool) {
	k := t.key(text)
	s := t.getShard(k)

	s.RLock()
	defer s.RUnlock()
	return s.find(t.slots, k, text)
}

// find walks the chain of slots sharing k. The caller holds the shard lock.
func (s *shard) find(slots *pkg.Store, k key, text string) (uint32, bool) {
	id, ok := s.index.Get(k)
	for ok {
		if slots.Get(id).Text == text {
			return id, true
		}
		id, ok = slots.Next(id)
	}
	return 0, false
}

func (t *table) slot(id uint32) *pkg.Slot {
	return t.slots.Get(id)
}

// Stats represents the runtime statistics of the intern table.
type Stats struct {
	Atoms       int
	Shards      int
	Chunks      int
	Bytes       uint64
	Pages       int
	PageBytes   uint64
	Large       int
	Hits        uint64
	Misses      uint64
	GroupAllocs uint64
	GroupReuses uint64
}

func (t *table) stats() (stats Stats) {
	stats.Atoms = t.slots.Len()
	stats.Shards = len(t.shards)
	stats.Chunks = t.slots.Chunks()
	for _, s := range t.shards {
		s.RLock()
		as := s.arena.Stats()
		s.RUnlock()

		stats.Bytes += as.Used
		stats.Pages += as.Pages
		stats.PageBytes += as.PageBytes
		stats.Large += as.Large
		stats.Hits += s.hits.Load()
		stats.Misses += s.misses.Load()
	}
	stats.GroupAllocs = t.alloc.Allocs()
	stats.GroupReuses = t.alloc.Reuses()
	return
}
