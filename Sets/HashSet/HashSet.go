// Package HashSet implements structkit/Sets.Set and Sets.ExtendedSet as a
// separately-chained hash table: an ordered sequence of bucket heads, each
// either empty or the first link of a structkit.Slink chain. See spec.md
// §3-4.1 for the full contract; this file implements it.
package HashSet

import (
	"math"

	"github.com/g-m-twostay/structkit"
	"github.com/g-m-twostay/structkit/Sets"
	"github.com/g-m-twostay/structkit/alloc"
)

// DefaultInitialBuckets is the container subsystem's default table size,
// used both when New lazily sizes the table on the first Put and as the
// floor SetBuckets clamps to.
const DefaultInitialBuckets uint = 4

// DefaultLoadFactor is the container subsystem's default load threshold.
const DefaultLoadFactor float64 = 0.75

// HashSet is a single-owner, non-reentrant separately-chained set over a
// comparable element type V. No method may be called concurrently with
// any other on the same instance.
type HashSet[V comparable] struct {
	table      []*structkit.Slink[V]
	count      uint
	loadFactor float64
	mutation   uint64
	hash       func(V, uint) uint
	reap       func(V)
	heap       alloc.Allocator[V]
}

// New builds a HashSet using the container subsystem's defaults: the
// built-in Hasher (seeded with seed), a no-op reap function, and a plain
// HeapAllocator.
func New[V comparable](seed uintptr) *HashSet[V] {
	return NewWithPolicy[V](structkit.Default[V](seed), func(V) {}, alloc.HeapAllocator[V]{})
}

// NewWithPolicy builds a HashSet over the given hash, reap, and allocator
// policies (spec.md §6's external collaborators).
func NewWithPolicy[V comparable](hash func(V, uint) uint, reap func(V), heap alloc.Allocator[V]) *HashSet[V] {
	return &HashSet[V]{hash: hash, reap: reap, heap: heap, loadFactor: DefaultLoadFactor}
}

// NewSized is like NewWithPolicy but eagerly allocates a table of exactly
// buckets buckets instead of waiting for the first Put — useful for
// reproducing a specific resize trajectory (see hashset_test.go's resize
// determinism case), since SetBuckets clamps to DefaultInitialBuckets and
// New only sizes lazily.
func NewSized[V comparable](buckets uint, loadFactor float64, hash func(V, uint) uint, reap func(V), heap alloc.Allocator[V]) *HashSet[V] {
	s := NewWithPolicy[V](hash, reap, heap)
	s.loadFactor = loadFactor
	s.table = heap.AllocateTable(buckets)
	return s
}

var _ Sets.Set[int] = (*HashSet[int])(nil)
var _ Sets.ExtendedSet[int] = (*HashSet[int])(nil)

// Size returns the number of elements stored.
func (s *HashSet[V]) Size() uint {
	return s.count
}

// Put inserts v iff no equivalent element exists, and reports whether it
// did. It triggers the load-factor resize check only when the target
// bucket was non-empty before this insertion (spec.md §4.1.1).
func (s *HashSet[V]) Put(v V) bool {
	if s.table == nil {
		s.table = s.heap.AllocateTable(DefaultInitialBuckets)
	}
	idx := s.hash(v, uint(len(s.table)))
	head := s.table[idx]
	for n := head; n != nil; n = n.Next {
		if n.Value == v {
			return false
		}
	}
	node := s.heap.Allocate()
	node.Value = v
	node.Next = head
	s.table[idx] = node
	s.count++
	s.mutation++
	if head != nil {
		if float64(s.count)/float64(len(s.table)) > s.loadFactor {
			s.resize()
		}
	}
	return true
}

// Has reports whether v is present, via a bucket-local linear search.
func (s *HashSet[V]) Has(v V) bool {
	if s.table == nil {
		return false
	}
	idx := s.hash(v, uint(len(s.table)))
	for n := s.table[idx]; n != nil; n = n.Next {
		if n.Value == v {
			return true
		}
	}
	return false
}

// Remove removes the first (and by invariant, only) equivalent element,
// preserving chain order, and reports whether anything was removed.
func (s *HashSet[V]) Remove(v V) bool {
	if s.table == nil {
		return false
	}
	idx := s.hash(v, uint(len(s.table)))
	var trail *structkit.Slink[V]
	for n := s.table[idx]; n != nil; n = n.Next {
		if n.Value == v {
			if trail == nil {
				s.table[idx] = n.Next
			} else {
				trail.Next = n.Next
			}
			s.reap(n.Value)
			s.heap.CollectNode(n)
			s.count--
			s.mutation++
			return true
		}
		trail = n
	}
	return false
}

// Take removes and returns some element, with no ordering guarantee
// beyond "first non-empty bucket" at the time of the call. It reports
// false iff the set was empty, the only way a caller can tell that case
// apart from the zero value of V having been the element actually taken.
func (s *HashSet[V]) Take() (v V, ok bool) {
	for i, head := range s.table {
		if head != nil {
			v = head.Value
			s.table[i] = head.Next
			s.reap(head.Value)
			s.heap.CollectNode(head)
			s.count--
			s.mutation++
			return v, true
		}
	}
	return v, false
}

// Replace performs spec.md's documented remove-then-add sequence: if old
// != new and old is present, old is removed and new is (attempted to be)
// added. If old == new it does nothing and reports false; otherwise the
// result reports only whether old was present — if new already
// existed as a distinct element, it is rejected by the subsequent add and
// nothing is added, but Replace still reports true. This is preserved
// on purpose (spec.md §9 Open Questions), not fixed into an atomic swap.
func (s *HashSet[V]) Replace(old, newV V) bool {
	if old == newV {
		return false
	}
	if !s.Remove(old) {
		return false
	}
	s.Put(newV)
	return true
}

// Range visits every element in bucket-index-ascending, then chain order
// (Put prepends to a chain; a resize may reorder it), stopping early if f
// returns false. It ranges over a
// local snapshot of the table header, the same way the teacher's own
// Sets.HashSet.Range documents: concurrent structural changes made from
// inside f are not specified and may or may not be observed.
func (s *HashSet[V]) Range(f func(V) bool) {
	tbl := s.table
	for _, head := range tbl {
		for n := head; n != nil; n = n.Next {
			if !f(n.Value) {
				return
			}
		}
	}
}

// PutAll bulk-inserts every element of other, returning the count
// actually inserted.
func (s *HashSet[V]) PutAll(other Sets.Set[V]) (n uint) {
	other.Range(func(v V) bool {
		if s.Put(v) {
			n++
		}
		return true
	})
	return
}

// RemoveAll bulk-removes every element of other that is present,
// returning the count actually removed.
func (s *HashSet[V]) RemoveAll(other Sets.Set[V]) (n uint) {
	other.Range(func(v V) bool {
		if s.Remove(v) {
			n++
		}
		return true
	})
	return
}

// Eq reports whether s and other contain exactly the same elements.
func (s *HashSet[V]) Eq(other Sets.Set[V]) bool {
	if s.Size() != other.Size() {
		return false
	}
	eq := true
	s.Range(func(v V) bool {
		if !other.Has(v) {
			eq = false
			return false
		}
		return true
	})
	return eq
}

// Union adds every element of other into s, in place.
func (s *HashSet[V]) Union(other Sets.Set[V]) {
	other.Range(func(v V) bool {
		s.Put(v)
		return true
	})
}

// Intersect removes every element of s not present in other, in place.
// Membership is evaluated against a full snapshot of s's elements before
// any removal starts, so self-intersection and reentrant allocators that
// zero collected nodes can't corrupt the walk.
func (s *HashSet[V]) Intersect(other Sets.Set[V]) {
	drop := make([]V, 0, s.count)
	s.Range(func(v V) bool {
		if !other.Has(v) {
			drop = append(drop, v)
		}
		return true
	})
	for _, v := range drop {
		s.Remove(v)
	}
}

// Filter returns a new set holding the elements of s for which f returns
// true, built with the same hash/reap policy as s and a plain heap
// allocator.
func (s *HashSet[V]) Filter(f func(V) bool) Sets.ExtendedSet[V] {
	out := NewWithPolicy[V](s.hash, s.reap, alloc.HeapAllocator[V]{})
	s.Range(func(v V) bool {
		if f(v) {
			out.Put(v)
		}
		return true
	})
	return out
}

// Buckets returns the current bucket count (0 if the table hasn't been
// allocated yet).
func (s *HashSet[V]) Buckets() uint {
	return uint(len(s.table))
}

// SetBuckets resizes the table to cap buckets, clamped to at least
// DefaultInitialBuckets, and rehashes if the size actually changes.
func (s *HashSet[V]) SetBuckets(cap uint) {
	if cap < DefaultInitialBuckets {
		cap = DefaultInitialBuckets
	}
	if uint(len(s.table)) == cap {
		return
	}
	s.resizeTo(cap)
}

// LoadFactor returns the current load threshold.
func (s *HashSet[V]) LoadFactor() float64 {
	return s.loadFactor
}

// SetLoadFactor sets the load threshold and immediately resizes if the
// set is already over it.
func (s *HashSet[V]) SetLoadFactor(f float64) {
	s.loadFactor = f
	if s.table != nil && float64(s.count)/float64(len(s.table)) > f {
		s.resize()
	}
}

// resize grows the table per spec.md §4.1.1's formula:
// 2*ceil(count/loadFactor)+1.
func (s *HashSet[V]) resize() {
	newSize := 2*uint(math.Ceil(float64(s.count)/s.loadFactor)) + 1
	s.resizeTo(newSize)
}

// resizeTo rehashes every node into a newly allocated table of the given
// size, preserving node identity, then releases the old table.
func (s *HashSet[V]) resizeTo(newSize uint) {
	newTable := s.heap.AllocateTable(newSize)
	for _, head := range s.table {
		for n := head; n != nil; {
			next := n.Next
			idx := s.hash(n.Value, newSize)
			n.Next = newTable[idx]
			newTable[idx] = n
			n = next
		}
	}
	old := s.table
	s.table = newTable
	if old != nil {
		s.heap.CollectTable(old)
	}
	s.mutation++
}

// ToArray returns a prefix-filled slice of length Size(), reusing dst's
// backing array when it's large enough and allocating a new one
// otherwise.
func (s *HashSet[V]) ToArray(dst []V) []V {
	if uint(cap(dst)) < s.count {
		dst = make([]V, s.count)
	} else {
		dst = dst[:s.count]
	}
	i := uint(0)
	for _, head := range s.table {
		for n := head; n != nil; n = n.Next {
			dst[i] = n.Value
			i++
		}
	}
	return dst
}

// Dup returns an independent copy with the same bucket count and load
// factor. Elements are copied by value, not deep-cloned — if V is itself
// a pointer type, the copy shares the pointee with s.
func (s *HashSet[V]) Dup() *HashSet[V] {
	out := NewWithPolicy[V](s.hash, s.reap, alloc.HeapAllocator[V]{})
	out.loadFactor = s.loadFactor
	if s.table != nil {
		out.table = out.heap.AllocateTable(uint(len(s.table)))
		for i, head := range s.table {
			for n := head; n != nil; n = n.Next {
				nn := out.heap.Allocate()
				nn.Value = n.Value
				nn.Next = out.table[i]
				out.table[i] = nn
				out.count++
			}
		}
	}
	return out
}

// Clear empties every chain, preserving the table itself. It invokes the
// reap function per element unless the allocator reports it performed a
// bulk free (alloc.Allocator.Collect(true) == true), in which case
// per-element reaping is skipped entirely, per spec.md §4.1's contract.
func (s *HashSet[V]) Clear() {
	if s.table == nil {
		return
	}
	if s.heap.Collect(true) {
		for i := range s.table {
			s.table[i] = nil
		}
	} else {
		for i, head := range s.table {
			for n := head; n != nil; {
				next := n.Next
				s.reap(n.Value)
				s.heap.CollectNode(n)
				n = next
			}
			s.table[i] = nil
		}
	}
	s.count = 0
	s.mutation++
}

// Reset clears the set and releases the table itself; the resulting state
// is indistinguishable from a freshly constructed instance.
func (s *HashSet[V]) Reset() {
	s.Clear()
	if s.table != nil {
		s.heap.CollectTable(s.table)
	}
	s.table = nil
	s.mutation++
}

// Check asserts invariants 1, 2, 3, 4, and 6 from spec.md §3, returning a
// structkit.Error describing the first violation found, or nil.
func (s *HashSet[V]) Check() error {
	if s.loadFactor <= 0 {
		return structkit.NewInvariantError("load factor must be strictly positive")
	}
	if s.table == nil {
		if s.count != 0 {
			return structkit.NewInvariantError("count must be zero when the table is nil")
		}
		return nil
	}
	if len(s.table) == 0 {
		return structkit.NewInvariantError("table must have positive length when non-nil")
	}
	seen := make(map[*structkit.Slink[V]]bool, s.count)
	var total uint
	for i, head := range s.table {
		for n := head; n != nil; n = n.Next {
			if seen[n] {
				return structkit.NewInvariantError("node reachable from more than one chain, or a cycle")
			}
			seen[n] = true
			if idx := s.hash(n.Value, uint(len(s.table))); idx != uint(i) {
				return structkit.NewInvariantError("node found in a bucket its hash doesn't map to")
			}
			total++
		}
	}
	if total != s.count {
		return structkit.NewInvariantError("count doesn't match the number of reachable nodes")
	}
	return nil
}
