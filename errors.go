package atom

import (
	"errors"
)

var (
	// ErrInitialized is returned by Init once the table has been built,
	// either by an earlier Init or by the first use of the package.
	ErrInitialized = errors.New("atom: table already initialized")

	// ErrTableFull is the panic value raised when no more slots can be allocated.
	ErrTableFull = errors.New("atom: intern table is full")

	errInvalidShardCount = errors.New("atom: shard count must be a power of two between 1 and 4096")
	errInvalidCapacity   = errors.New("atom: capacity must not be negative")
	errInvalidPageSize   = errors.New("atom: page size must be positive")
)
