package atom

import (
	"strconv"
	"strings"
)

// prime64 spreads dense ids over the whole hash space.
const prime64 = 0x9e3779b97f4a7c15

// Atom is a handle to an interned text.
//
// Two atoms are equal, with == or Equal, exactly when their texts are equal.
// The zero Atom is the empty string. Atoms are only created by interning, so
// an Atom always refers to a live text.
type Atom struct {
	id uint32
}

// ID returns the dense index of the atom's slot. IDs are assigned in
// interning order and are only meaningful within one process.
func (a Atom) ID() uint32 {
	return a.id
}

// Equal reports whether a and b refer to the same text.
func (a Atom) Equal(b Atom) bool {
	return a.id == b.id
}

// Hash returns a hash of the atom's identity. It is consistent with Equal.
func (a Atom) Hash() uint64 {
	h := (uint64(a.id) + 1) * prime64
	return h ^ h>>32
}

// ContentHash returns the hash of the atom's text computed when it was
// interned. Unlike Hash it does not depend on interning order.
// For texts longer than 128 bytes only the first and last 64 bytes are
// hashed, so long texts differing only in the middle share a ContentHash.
func (a Atom) ContentHash() uint64 {
	return getTable().slot(a.id).Hash
}

// String returns the atom's text. The string is never freed.
func (a Atom) String() string {
	return getTable().slot(a.id).Text
}

// Bytes returns a copy of the atom's text.
func (a Atom) Bytes() []byte {
	return []byte(a.String())
}

// AppendTo appends the atom's text to dst.
func (a Atom) AppendTo(dst []byte) []byte {
	return append(dst, a.String()...)
}

// Len returns the length of the atom's text in bytes.
func (a Atom) Len() int {
	return len(a.String())
}

// Slice returns text[i:j].
func (a Atom) Slice(i, j int) string {
	return a.String()[i:j]
}

// Compare orders atoms by their text.
func (a Atom) Compare(b Atom) int {
	if a.id == b.id {
		return 0
	}
	return strings.Compare(a.String(), b.String())
}

// EqualString reports whether the atom's text is s.
func (a Atom) EqualString(s string) bool {
	return a.String() == s
}

// CompareString orders the atom's text against s.
func (a Atom) CompareString(s string) int {
	return strings.Compare(a.String(), s)
}

func (a Atom) GoString() string {
	return strconv.Quote(a.String())
}

func (a Atom) MarshalText() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalText interns text and points a at it.
func (a *Atom) UnmarshalText(text []byte) error {
	*a = NewBytes(text)
	return nil
}
