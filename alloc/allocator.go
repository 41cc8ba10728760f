// Package alloc provides the node and bucket-table allocation policies
// HashSet is parameterised over (spec §6's "Allocator" collaborator).
package alloc

import "github.com/g-m-twostay/structkit"

// Allocator provides typed node pools and bucket-table allocation for a
// HashSet[V]. HashSet owns its Allocator and only ever calls it from its
// own methods (single-owner, same as the set itself).
type Allocator[V any] interface {
	// Allocate returns a fresh, zero-valued node.
	Allocate() *structkit.Slink[V]

	// AllocateTable returns a new bucket-head table of length n, all nil.
	AllocateTable(n uint) []*structkit.Slink[V]

	// CollectTable releases a bucket-head table HashSet no longer
	// references (called right after a resize rehashes into a new one).
	CollectTable(t []*structkit.Slink[V])

	// CollectNode releases a single unlinked node, after HashSet has
	// already invoked the reap function on its value.
	CollectNode(n *structkit.Slink[V])

	// Collect is asked, at the start of a bulk release (HashSet.Clear /
	// Reset), whether the allocator can free every outstanding node in
	// one shot. Returning true signals the caller that it may skip both
	// the per-node CollectNode call and the per-element reap invocation
	// it would otherwise make. Returning false means the caller must
	// still walk every chain, invoking reap and CollectNode itself.
	Collect(all bool) bool
}

// HeapAllocator is the container subsystem's default: every node and
// table is a normal garbage-collected allocation, and there is no bulk
// free — the runtime reclaims memory issued through Allocate/AllocateTable
// the ordinary way as soon as nothing references it, so Collect always
// reports false and the caller must still walk every chain.
type HeapAllocator[V any] struct{}

func (HeapAllocator[V]) Allocate() *structkit.Slink[V] {
	return new(structkit.Slink[V])
}

func (HeapAllocator[V]) AllocateTable(n uint) []*structkit.Slink[V] {
	return make([]*structkit.Slink[V], n)
}

func (HeapAllocator[V]) CollectTable(_ []*structkit.Slink[V]) {}

func (HeapAllocator[V]) CollectNode(_ *structkit.Slink[V]) {}

func (HeapAllocator[V]) Collect(bool) bool { return false }
