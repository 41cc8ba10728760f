package alloc

import (
	"github.com/g-m-twostay/structkit"
	"golang.org/x/exp/constraints"
)

// ChunkAllocator is the "heap/chunk variant" spec §6 calls out: it accepts
// a Configure(chunkSize, chunkCount) hint and hands out nodes from
// contiguous pre-allocated chunks instead of one `new` per node, reusing
// nodes released through CollectNode before growing.
//
// It is grounded on the teacher's Maps.chunkArr (a go:linkname'd
// runtime.mallocgc call returning a flexible-array-member block of
// *relay), simplified to a plain `make([]structkit.Slink[V], chunkSize)`
// slice per chunk: chunkArr's unsafe pointer arithmetic existed to dodge
// the double indirection of []*relay for a non-generic type; with Go
// generics a slice of Slink[V] values gives the same one-allocation-per-
// chunk amortisation without the unsafe cast, so the mallocgc trick
// doesn't earn its keep here (see DESIGN.md).
type ChunkAllocator[V any] struct {
	chunkSize uint
	chunks    [][]structkit.Slink[V]
	used      bitArray
	free      nodeFreeList[V]
	total     uint // slots across all chunks so far, issued or not
	next      uint // index of the next never-issued slot
}

// NewChunkAllocator builds a ChunkAllocator that starts with chunkCount
// chunks of chunkSize nodes and doubles its number of chunks each time it
// runs out of free and never-issued slots. The hint is generic over any unsigned integer type,
// the same latitude the teacher's Trees size parameter (S constraints.
// Unsigned) gives callers sizing a tree from a uint32 node count or a
// plain int literal without an explicit conversion at the call site.
func NewChunkAllocator[V any, S constraints.Unsigned](chunkSize, chunkCount S) *ChunkAllocator[V] {
	c := &ChunkAllocator[V]{}
	c.Configure(uint(chunkSize), uint(chunkCount))
	return c
}

// Configure applies the chunkSize/chunkCount hint. Calling it after nodes
// have already been issued only affects chunks grown from that point on.
func (c *ChunkAllocator[V]) Configure(chunkSize, chunkCount uint) {
	if chunkSize == 0 {
		chunkSize = 1
	}
	c.chunkSize = chunkSize
	if chunkCount == 0 {
		chunkCount = 1
	}
	c.grow(chunkCount)
}

func (c *ChunkAllocator[V]) grow(chunkCount uint) {
	for i := uint(0); i < chunkCount; i++ {
		c.chunks = append(c.chunks, make([]structkit.Slink[V], c.chunkSize))
	}
	newTotal := uint(len(c.chunks)) * c.chunkSize
	grown := newBitArray(newTotal)
	for i := uint(0); i < c.total; i++ {
		if c.used.get(i) {
			grown.set(i)
		}
	}
	c.used = grown
	c.total = newTotal
}

func (c *ChunkAllocator[V]) slot(i uint) *structkit.Slink[V] {
	return &c.chunks[i/c.chunkSize][i%c.chunkSize]
}

func (c *ChunkAllocator[V]) Allocate() *structkit.Slink[V] {
	if n, ok := c.free.pop(); ok {
		return n
	}
	if c.next == c.total {
		c.grow(uint(len(c.chunks)))
	}
	i := c.next
	c.next++
	c.used.set(i)
	n := c.slot(i)
	*n = structkit.Slink[V]{}
	return n
}

func (c *ChunkAllocator[V]) AllocateTable(n uint) []*structkit.Slink[V] {
	return make([]*structkit.Slink[V], n)
}

func (c *ChunkAllocator[V]) CollectTable(_ []*structkit.Slink[V]) {}

func (c *ChunkAllocator[V]) CollectNode(n *structkit.Slink[V]) {
	*n = structkit.Slink[V]{}
	c.free.push(n)
}

// Collect bulk-resets every chunk slot to unused in one pass over the
// occupancy bitmap, when all is true, and reports that it did so — which
// tells the caller (HashSet.Clear/Reset) it may skip both per-node
// CollectNode and the per-element reap call it would otherwise make.
func (c *ChunkAllocator[V]) Collect(all bool) bool {
	if !all {
		return false
	}
	c.used.clearAll()
	c.free.clear()
	c.next = 0
	return true
}
