package seqkit

import "iter"

// List is a doubly linked list, the materialization target of CollectList.
// The zero value is an empty list ready to use.
type List[V any] struct {
	head   *listElem[V]
	tail   *listElem[V]
	length int
}

type listElem[V any] struct {
	data V
	prev *listElem[V]
	next *listElem[V]
}

// Len returns the number of elements in the list.
func (l *List[V]) Len() int {
	if l == nil {
		return 0
	}
	return l.length
}

func (l *List[V]) Append(vs ...V) {
	for _, v := range vs {
		l.append(v)
	}
}

func (l *List[V]) append(v V) {
	newElem := &listElem[V]{data: v}
	if l.tail == nil {
		l.head = newElem
		l.tail = newElem
	} else {
		prevTail := l.tail
		prevTail.next = newElem
		l.tail = newElem
		l.tail.prev = prevTail
	}
	l.length++
}

// Prepend adds the elements to the beginning of the list,
// keeping their argument order.
func (l *List[V]) Prepend(vs ...V) {
	for index := len(vs) - 1; 0 <= index; index-- {
		l.prepend(vs[index])
	}
}

func (l *List[V]) prepend(v V) {
	var (
		prevHead = l.head
		newHead  = &listElem[V]{
			data: v,
			next: prevHead,
		}
	)
	if prevHead != nil {
		prevHead.prev = newHead
	}
	l.head = newHead
	if l.tail == nil {
		l.tail = newHead
	}
	l.length++
}

// Shift removes and returns the first element of the list.
func (l *List[V]) Shift() (V, bool) {
	if l.head == nil {
		var zero V
		return zero, false
	}
	first := l.head
	l.head = first.next
	if l.head != nil {
		l.head.prev = nil
	}
	if l.head == nil {
		l.tail = nil
	}
	l.length--
	return first.data, true
}

// Pop removes and returns the last element of the list.
func (l *List[V]) Pop() (V, bool) {
	var last = l.tail
	if last == nil {
		var zero V
		return zero, false
	}
	var prev = l.tail.prev
	if prev != nil {
		prev.next = nil
	}
	if prev == nil {
		l.head = nil
	}
	l.tail = prev
	l.length--
	return last.data, true
}

func (l *List[V]) Iter() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		if l == nil {
			return
		}
		var (
			current = l.head
			index   int
		)
		for {
			if current == nil {
				break
			}
			if !yield(index, current.data) {
				return
			}
			current = current.next
			index++
		}
	}
}

func (l *List[V]) ToSlice() []V {
	var vs []V
	for _, v := range l.Iter() {
		vs = append(vs, v)
	}
	return vs
}
