package seqkit

// node is a cell of a persistent singly linked chain.
// A chain is never mutated after construction, so it can be structurally shared
// by every composed sequence that was derived from the same receiver,
// and no locking is needed for concurrent readers.
//
// The chain exists solely to give Append/Prepend O(1) growth;
// it is not a general purpose persistent collection.
type node[V any] struct {
	item  V
	link  *node[V]
	count int
}

// newChain returns a single element chain.
func newChain[V any](v V) *node[V] {
	return &node[V]{item: v, count: 1}
}

// add returns a new chain head linking to the receiver.
// The receiver is left untouched and remains a valid chain on its own.
func (n *node[V]) add(v V) *node[V] {
	count := 1
	if n != nil {
		count = n.count + 1
	}
	return &node[V]{item: v, link: n, count: count}
}

func (n *node[V]) len() int {
	if n == nil {
		return 0
	}
	return n.count
}

// fillReversed writes the chain into dst in insertion order.
// The chain stores the newest element at its head,
// so dst is filled back to front while the chain is walked head to tail.
// dst must have room for at least len() elements.
func (n *node[V]) fillReversed(dst []V) int {
	index := n.len() - 1
	for current := n; current != nil; current = current.link {
		dst[index] = current.item
		index--
	}
	return n.len()
}

// toSlice materializes the chain in insertion order with a single reverse pass.
func (n *node[V]) toSlice() []V {
	if n == nil {
		return nil
	}
	vs := make([]V, n.count)
	n.fillReversed(vs)
	return vs
}
