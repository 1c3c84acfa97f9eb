package atom

import (
	"math/bits"

	"github.com/xgzlucario/atom/internal/pkg"
)

const (
	KB = pkg.KB

	maxShardCount = 4096
)

var (
	DefaultOptions = Options{
		ShardCount: 64,
		Capacity:   1024,
		PageSize:   64 * KB,
	}
)

// Options represents the configuration for the intern table.
// None of the options change interning semantics.
type Options struct {
	// ShardCount is the number of lock partitions of the table.
	// It must be a power of two.
	ShardCount uint32

	// Capacity is a hint for how many distinct texts will be interned.
	// It is spread evenly over the shards.
	Capacity int

	// PageSize is the size of the byte pages interned text is copied into.
	// Text longer than a quarter of a page gets its own allocation.
	PageSize int
}

func checkOptions(option Options) error {
	if option.ShardCount == 0 || option.ShardCount > maxShardCount || bits.OnesCount32(option.ShardCount) != 1 {
		return errInvalidShardCount
	}
	if option.Capacity < 0 {
		return errInvalidCapacity
	}
	if option.PageSize <= 0 {
		return errInvalidPageSize
	}
	return nil
}
