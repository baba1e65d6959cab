package seqkit

import (
	"context"

	"go.uber.org/atomic"

	"go.llib.dev/seqkit/internal/errorkitlite"
)

// Append returns the sequence made of src followed by v.
//
// The call is lazy: src is not enumerated, and no cursor is opened on it
// until the returned sequence is enumerated itself.
// When src is already an Append/Prepend composition,
// the call extends its internal chain instead of wrapping it in another layer,
// so chaining any number of Append/Prepend calls keeps the per-element
// enumeration cost constant.
func Append[V any](src Sequence[V], v V) Sequence[V] {
	if src == nil {
		panic("seqkit.Append called with a nil source sequence")
	}
	if composed, ok := src.(appendPrepender[V]); ok {
		return composed.appendOne(v)
	}
	return newAppendPrepend1(src, v, true)
}

// Prepend returns the sequence made of v followed by src.
// It composes the same way as Append does; see Append for the composition rules.
func Prepend[V any](src Sequence[V], v V) Sequence[V] {
	if src == nil {
		panic("seqkit.Prepend called with a nil source sequence")
	}
	if composed, ok := src.(appendPrepender[V]); ok {
		return composed.prependOne(v)
	}
	return newAppendPrepend1(src, v, false)
}

// appendPrepender is implemented by the composition specializations,
// so that further Append/Prepend calls can collapse into the receiver's chains
// rather than stacking decorators.
type appendPrepender[V any] interface {
	appendOne(v V) Sequence[V]
	prependOne(v V) Sequence[V]
}

// collector is implemented by sequences that can materialize themselves
// smarter than an element-by-element scan.
type collector[V any] interface {
	collect(ctx context.Context) ([]V, error)
}

// cursor lifecycle states
const (
	stateAllocated int32 = iota
	stateIterating
	stateClosed
)

// iteration phases within the iterating state
const (
	phaseInit int8 = iota
	phasePrepend
	phaseSource
	phaseAppend
	phaseDone
)

// iteratorBase carries the lifecycle state machine
// that every lazy sequence adapter of this package shares.
type iteratorBase[V any] struct {
	state   atomic.Int32
	current V
}

func (b *iteratorBase[V]) Value() V { return b.current }

// claim transitions the allocated state into iterating.
// It reports whether the caller won the transition,
// which makes it usable both as the Cursor() ownership check
// and as the implicit transition on a direct first Next call.
func (b *iteratorBase[V]) claim() bool {
	return b.state.CompareAndSwap(stateAllocated, stateIterating)
}

func (b *iteratorBase[V]) isClosed() bool {
	return b.state.Load() == stateClosed
}

// markClosed reports whether this call was the one that closed the cursor.
func (b *iteratorBase[V]) markClosed() bool {
	return b.state.Swap(stateClosed) != stateClosed
}

// appendPrependBase owns the upstream sequence reference
// and, lazily, the single live upstream cursor of a composition.
type appendPrependBase[V any] struct {
	iteratorBase[V]
	source   Sequence[V]
	upstream Cursor[V]
	phase    int8
}

// advanceSource opens the upstream cursor on first use and advances it.
func (b *appendPrependBase[V]) advanceSource(ctx context.Context) (bool, error) {
	if b.upstream == nil {
		b.upstream = b.source.Cursor()
	}
	return b.upstream.Next(ctx)
}

func (b *appendPrependBase[V]) Close(ctx context.Context) error {
	if !b.markClosed() {
		return nil
	}
	b.phase = phaseDone
	var zero V
	b.current = zero
	if upstream := b.upstream; upstream != nil {
		b.upstream = nil
		return upstream.Close(ctx)
	}
	return nil
}

// fail releases the owned upstream cursor before the failure is surfaced,
// so the failure path and the exhaustion path converge on the same disposal.
func (b *appendPrependBase[V]) fail(ctx context.Context, err error) error {
	return errorkitlite.Merge(err, b.Close(context.WithoutCancel(ctx)))
}

func newAppendPrepend1[V any](src Sequence[V], v V, appending bool) *appendPrepend1[V] {
	return &appendPrepend1[V]{
		appendPrependBase: appendPrependBase[V]{source: src},
		item:              v,
		appending:         appending,
	}
}

// appendPrepend1 composes a source sequence with exactly one pending element,
// avoiding the chain allocation of appendPrependN.
// A further Append/Prepend call promotes it to an appendPrependN.
type appendPrepend1[V any] struct {
	appendPrependBase[V]
	item      V
	appending bool
}

func (i *appendPrepend1[V]) Cursor() Cursor[V] {
	if i.claim() {
		return i
	}
	return i.clone()
}

func (i *appendPrepend1[V]) clone() *appendPrepend1[V] {
	return newAppendPrepend1(i.source, i.item, i.appending)
}

func (i *appendPrepend1[V]) appendOne(v V) Sequence[V] {
	var prepended, appended *node[V]
	if i.appending {
		appended = newChain(i.item).add(v)
	} else {
		prepended = newChain(i.item)
		appended = newChain(v)
	}
	return newAppendPrependN(i.source, prepended, appended)
}

func (i *appendPrepend1[V]) prependOne(v V) Sequence[V] {
	var prepended, appended *node[V]
	if i.appending {
		prepended = newChain(v)
		appended = newChain(i.item)
	} else {
		prepended = newChain(i.item).add(v)
	}
	return newAppendPrependN(i.source, prepended, appended)
}

func (i *appendPrepend1[V]) Next(ctx context.Context) (bool, error) {
	if i.isClosed() {
		return false, nil
	}
	i.claim()
	// a pending cancellation is observed before any new suspension is entered
	if err := ctx.Err(); err != nil {
		return false, i.fail(ctx, err)
	}
	for {
		switch i.phase {
		case phaseInit:
			i.phase = phaseSource
			if !i.appending {
				i.current = i.item
				return true, nil
			}
		case phaseSource:
			ok, err := i.advanceSource(ctx)
			if err != nil {
				return false, i.fail(ctx, err)
			}
			if ok {
				i.current = i.upstream.Value()
				return true, nil
			}
			if i.appending {
				i.phase = phaseAppend
				continue
			}
			i.phase = phaseDone
		case phaseAppend:
			i.phase = phaseDone
			i.current = i.item
			return true, nil
		default:
			return false, i.Close(ctx)
		}
	}
}

func (i *appendPrepend1[V]) Count(ctx context.Context, onlyIfCheap bool) (int, bool, error) {
	n, ok, err := sourceCount(ctx, i.source, onlyIfCheap)
	if err != nil || !ok {
		return 0, false, err
	}
	return n + 1, true, nil
}

func (i *appendPrepend1[V]) collect(ctx context.Context) ([]V, error) {
	n, ok, err := i.Count(ctx, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		var out []V
		if !i.appending {
			out = append(out, i.item)
		}
		out, err = scanInto(ctx, i.source, out)
		if err != nil {
			return nil, err
		}
		if i.appending {
			out = append(out, i.item)
		}
		return out, nil
	}
	out := make([]V, n)
	var index int
	if !i.appending {
		out[index] = i.item
		index++
	}
	copied, err := copySource(ctx, i.source, out[index:index+(n-1)])
	if err != nil {
		return nil, err
	}
	index += copied
	if i.appending {
		out[index] = i.item
		index++
	}
	return out[:index], nil
}

func newAppendPrependN[V any](src Sequence[V], prepended, appended *node[V]) *appendPrependN[V] {
	return &appendPrependN[V]{
		appendPrependBase: appendPrependBase[V]{source: src},
		prepended:         prepended,
		appended:          appended,
	}
}

// appendPrependN composes a source sequence with any number of
// prepended and appended elements, held in two shared persistent chains.
//
// Enumeration order is fixed: the prepend chain from its head,
// then the source, then the append chain in insertion order,
// regardless of the order the composing calls were issued in.
type appendPrependN[V any] struct {
	appendPrependBase[V]
	prepended *node[V]
	appended  *node[V]

	// walk is the transient cursor into the prepend chain.
	walk *node[V]
	// tail is the append chain materialized in insertion order,
	// built only once the source is exhausted.
	tail    []V
	tailIdx int
}

func (i *appendPrependN[V]) Cursor() Cursor[V] {
	if i.claim() {
		return i
	}
	return i.clone()
}

func (i *appendPrependN[V]) clone() *appendPrependN[V] {
	return newAppendPrependN(i.source, i.prepended, i.appended)
}

func (i *appendPrependN[V]) appendOne(v V) Sequence[V] {
	return newAppendPrependN(i.source, i.prepended, i.appended.add(v))
}

func (i *appendPrependN[V]) prependOne(v V) Sequence[V] {
	return newAppendPrependN(i.source, i.prepended.add(v), i.appended)
}

func (i *appendPrependN[V]) Next(ctx context.Context) (bool, error) {
	if i.isClosed() {
		return false, nil
	}
	i.claim()
	// a pending cancellation is observed before any new suspension is entered
	if err := ctx.Err(); err != nil {
		return false, i.fail(ctx, err)
	}
	for {
		switch i.phase {
		case phaseInit:
			i.walk = i.prepended
			i.phase = phasePrepend
		case phasePrepend:
			if i.walk != nil {
				i.current = i.walk.item
				i.walk = i.walk.link
				return true, nil
			}
			i.phase = phaseSource
		case phaseSource:
			ok, err := i.advanceSource(ctx)
			if err != nil {
				return false, i.fail(ctx, err)
			}
			if ok {
				i.current = i.upstream.Value()
				return true, nil
			}
			if i.appended != nil {
				i.tail = i.appended.toSlice()
				i.tailIdx = 0
				i.phase = phaseAppend
				continue
			}
			i.phase = phaseDone
		case phaseAppend:
			if i.tailIdx < len(i.tail) {
				i.current = i.tail[i.tailIdx]
				i.tailIdx++
				return true, nil
			}
			i.phase = phaseDone
		default:
			return false, i.Close(ctx)
		}
	}
}

func (i *appendPrependN[V]) Count(ctx context.Context, onlyIfCheap bool) (int, bool, error) {
	n, ok, err := sourceCount(ctx, i.source, onlyIfCheap)
	if err != nil || !ok {
		return 0, false, err
	}
	return n + i.prepended.len() + i.appended.len(), true, nil
}

func (i *appendPrependN[V]) collect(ctx context.Context) ([]V, error) {
	n, ok, err := i.Count(ctx, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		out := make([]V, 0, i.prepended.len()+i.appended.len())
		for current := i.prepended; current != nil; current = current.link {
			out = append(out, current.item)
		}
		out, err = scanInto(ctx, i.source, out)
		if err != nil {
			return nil, err
		}
		if i.appended != nil {
			out = append(out, i.appended.toSlice()...)
		}
		return out, nil
	}
	out := make([]V, n)
	var index int
	for current := i.prepended; current != nil; current = current.link {
		out[index] = current.item
		index++
	}
	middle := n - i.prepended.len() - i.appended.len()
	copied, err := copySource(ctx, i.source, out[index:index+middle])
	if err != nil {
		return nil, err
	}
	index += copied
	if i.appended != nil {
		index += i.appended.fillReversed(out[index:])
	}
	return out[:index], nil
}

var (
	_ Sequence[any]        = &appendPrepend1[any]{}
	_ Cursor[any]          = &appendPrepend1[any]{}
	_ Countable            = &appendPrepend1[any]{}
	_ appendPrepender[any] = &appendPrepend1[any]{}
	_ Sequence[any]        = &appendPrependN[any]{}
	_ Cursor[any]          = &appendPrependN[any]{}
	_ Countable            = &appendPrependN[any]{}
	_ appendPrepender[any] = &appendPrependN[any]{}
)
