package structkit

// Slink is the singly-linked node the container subsystem hands to
// anything that needs chained storage — here, the hash bucket chains in
// Sets/HashSet. It carries one value and a forward link only: no prev
// pointer, the same trade the teacher's concurrent node types (Maps'
// node/intNode families) all make, since chains stay short under a sane
// load factor and removal's O(chain length) walk is cheap in exchange.
type Slink[V any] struct {
	Value V
	Next  *Slink[V]
}
