// Package structkit holds the two leaf containers of the library: a
// separately-chained HashSet (see the Sets/HashSet subpackage) and a
// conduit-backed byte Buffer (see the Buffer subpackage). This file and
// slink.go hold what both of them share.
package structkit

import (
	_ "runtime"
	"unsafe"
)

//go:linkname rtHash runtime.memhash
//go:noescape
func rtHash(ptr unsafe.Pointer, seed uintptr, len uintptr) uintptr

//go:linkname rtHash64 runtime.memhash64
//go:noescape
func rtHash64(ptr unsafe.Pointer, seed uintptr) uintptr

//go:linkname rtHash32 runtime.memhash32
//go:noescape
func rtHash32(ptr unsafe.Pointer, seed uintptr) uintptr

//go:linkname rtStrHash runtime.strhash
//go:noescape
func rtStrHash(ptr unsafe.Pointer, seed uintptr) uintptr

// Hasher is the container subsystem's default hash family. Construct one
// with NewHasher(seed); the zero value hashes with seed 0, which is fine
// for tests but predictable, so production callers should seed it.
//
// Hasher's receivers are pure and safe to share across sets, but the
// memory they read is not synchronized, so only hash memory you own
// exclusively at the time of the call.
type Hasher uintptr

// NewHasher builds a Hasher from an arbitrary seed.
func NewHasher(seed uintptr) Hasher {
	return Hasher(seed)
}

// HashMem hashes the memory in [addr, addr+size) as raw bytes. This is
// sound for comparable value types with no pointer-shaped fields (ints,
// fixed-size structs, arrays); it is unsound for strings, which is why
// HashString exists as a dedicated path.
func (h Hasher) HashMem(addr unsafe.Pointer, size uintptr) uintptr {
	switch size {
	case 4:
		return rtHash32(addr, uintptr(h))
	case 8:
		return rtHash64(addr, uintptr(h))
	default:
		return rtHash(addr, uintptr(h), size)
	}
}

// HashString hashes the contents of v, not its header.
func (h Hasher) HashString(v string) uintptr {
	return rtStrHash(unsafe.Pointer(&v), uintptr(h))
}

// HashBytes hashes the contents of b.
func (h Hasher) HashBytes(b []byte) uintptr {
	if len(b) == 0 {
		return uintptr(h)
	}
	return h.HashMem(unsafe.Pointer(&b[0]), uintptr(len(b)))
}

// Default builds the H(value, buckets) function HashSet.New falls back to
// when the caller supplies none: it hashes a comparable V's raw memory
// (special-casing string so it hashes content, not header) and reduces to
// [0, buckets) with a modulo — HashSet.resize() picks an odd bucket count
// (2*ceil(count/loadFactor)+1), not a power of two, so mask-reduction
// isn't an option here.
func Default[V comparable](seed uintptr) func(V, uint) uint {
	h := NewHasher(seed)
	return func(v V, buckets uint) uint {
		var raw uintptr
		if s, ok := any(v).(string); ok {
			raw = h.HashString(s)
		} else {
			raw = h.HashMem(unsafe.Pointer(&v), unsafe.Sizeof(v))
		}
		return uint(raw) % buckets
	}
}
