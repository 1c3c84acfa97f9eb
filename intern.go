// Package atom interns strings for the life of the process.
//
// New returns an Atom for a text. Atoms for equal texts are equal under ==,
// so comparing and hashing an Atom never looks at its bytes. Every distinct
// text is stored exactly once and is never freed; atoms are meant for
// vocabularies that stop growing (identifiers, label names, paths), not for
// arbitrary input.
//
// The table is built on first use with DefaultOptions, or earlier by Init.
package atom

import (
	"sync"
	"unsafe"

	"github.com/xgzlucario/atom/internal/pkg"
)

var (
	initOnce sync.Once
	global   *table
)

// Init builds the process-wide table with options. It must run before the
// first use of the package to take effect; once the table exists it returns
// ErrInitialized and leaves the table as it is. Invalid options are
// rejected without building anything.
func Init(options Options) error {
	if err := checkOptions(options); err != nil {
		return err
	}
	err := ErrInitialized
	initOnce.Do(func() {
		global = newTable(options, pkg.NewStore(0))
		err = nil
	})
	return err
}

func getTable() *table {
	initOnce.Do(func() {
		global = newTable(DefaultOptions, pkg.NewStore(0))
	})
	return global
}

// New returns the Atom for text, interning it if it is new.
func New(text string) Atom {
	return Atom{id: getTable().intern(text)}
}

// NewBytes is like New but takes bytes. b is not retained.
func NewBytes(b []byte) Atom {
	return Atom{id: getTable().intern(b2s(b))}
}

// NewSlice interns every text in texts, in order.
func NewSlice(texts []string) []Atom {
	t := getTable()
	atoms := make([]Atom, len(texts))
	for i, text := range texts {
		atoms[i] = Atom{id: t.intern(text)}
	}
	return atoms
}

// Lookup returns the Atom for text if it has already been interned.
// It never adds to the table.
func Lookup(text string) (Atom, bool) {
	id, ok := getTable().lookup(text)
	return Atom{id: id}, ok
}

// LookupBytes is like Lookup but takes bytes.
func LookupBytes(b []byte) (Atom, bool) {
	id, ok := getTable().lookup(b2s(b))
	return Atom{id: id}, ok
}

// Len returns the number of distinct texts interned so far.
func Len() int {
	return getTable().slots.Len()
}

// GetStats returns the current runtime statistics of the table.
func GetStats() Stats {
	return getTable().stats()
}

// b2s views b as a string. The result must not outlive b unless copied.
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
