// Package hash computes the content hashes used to key interned text.
package hash

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

const (
	// Seed is the xxhash64 seed shared by every content hash.
	Seed = 0x9e3779b9

	// EndSize is how many bytes at each end of a text take part in Key.
	EndSize = 64
)

// String hashes s with xxhash64 and Seed.
func String(s string) uint64 {
	var d xxhash.Digest
	d.ResetWithSeed(Seed)
	d.WriteString(s)
	return d.Sum64()
}

// Bytes hashes b with xxhash64 and Seed.
func Bytes(b []byte) uint64 {
	return String(b2s(b))
}

// HeadTail hashes the first head bytes and the last tail bytes of s, in that order.
// When s is not longer than head+tail the whole string is hashed.
func HeadTail(s string, head, tail int) uint64 {
	if len(s) <= head+tail {
		return String(s)
	}
	var d xxhash.Digest
	d.ResetWithSeed(Seed)
	d.WriteString(s[:head])
	d.WriteString(s[len(s)-tail:])
	return d.Sum64()
}

// Ends is HeadTail with n bytes taken from both ends.
func Ends(s string, n int) uint64 {
	return HeadTail(s, n, n)
}

// Key is the content hash stored with an interned text. Texts longer
// than 2*EndSize only hash their ends, so it must not be used to index
// texts that may share both ends.
func Key(s string) uint64 {
	return Ends(s, EndSize)
}

func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
