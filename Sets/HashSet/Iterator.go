package HashSet

import "github.com/g-m-twostay/structkit"

// Iterator is a value-typed cursor over a HashSet snapshot: a bucket
// table reference, the current row/cell position, the previously yielded
// cell (for Remove), the owning set, and the mutation epoch observed at
// creation (spec.md §4.1.3).
type Iterator[V comparable] struct {
	owner    *HashSet[V]
	table    []*structkit.Slink[V]
	row      int
	cell     *structkit.Slink[V]
	prior    *structkit.Slink[V]
	priorRow int
	mutation uint64
}

// Iterator returns a cursor over s's current table snapshot.
func (s *HashSet[V]) Iterator() *Iterator[V] {
	return &Iterator[V]{owner: s, table: s.table, row: -1, mutation: s.mutation}
}

// Next advances the cursor, skipping empty buckets, and reports whether
// an element was yielded into *out.
func (it *Iterator[V]) Next(out *V) bool {
	for it.cell == nil {
		it.row++
		if it.row >= len(it.table) {
			return false
		}
		it.cell = it.table[it.row]
	}
	*out = it.cell.Value
	it.prior = it.cell
	it.priorRow = it.row
	it.cell = it.cell.Next
	return true
}

// Remove removes the element most recently yielded by Next from its
// bucket chain, invoking the owner's reap function and allocator. It
// self-adjusts the iterator's recorded mutation epoch, so a subsequent
// Valid() call treats this self-inflicted mutation as expected — calling
// Remove is the one structural mutation an iterator can make without
// invalidating itself. Calling it without a prior successful Next, or
// calling it twice in a row, is a no-op.
func (it *Iterator[V]) Remove() {
	if it.prior == nil {
		return
	}
	head := it.owner.table[it.priorRow]
	if head == it.prior {
		it.owner.table[it.priorRow] = it.prior.Next
	} else {
		trail := head
		for trail != nil && trail.Next != it.prior {
			trail = trail.Next
		}
		if trail != nil {
			trail.Next = it.prior.Next
		}
	}
	it.owner.reap(it.prior.Value)
	it.owner.heap.CollectNode(it.prior)
	it.owner.count--
	it.owner.mutation++
	it.mutation = it.owner.mutation
	it.prior = nil
}

// Valid reports whether the owning set has undergone any structural
// mutation since this iterator was created, other than through the
// iterator's own Remove.
func (it *Iterator[V]) Valid() bool {
	return it.owner.mutation == it.mutation
}

// Each wraps Next in a closure that applies visit to every element,
// stopping early when visit returns false — the opApply-style functional
// iteration form spec.md §4.1.3 calls for.
func (it *Iterator[V]) Each(visit func(V) bool) {
	var v V
	for it.Next(&v) {
		if !visit(v) {
			return
		}
	}
}
