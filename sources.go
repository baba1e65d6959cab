package seqkit

import (
	"context"
	"iter"

	"go.uber.org/atomic"
)

// Slice returns a Sequence over the given slice.
// The returned sequence reports its length cheaply and supports bulk copy.
func Slice[V any](vs []V) Sequence[V] {
	return sliceSequence[V](vs)
}

// Empty sequence is used to represent a no result with the null object pattern.
func Empty[V any]() Sequence[V] {
	return sliceSequence[V](nil)
}

type sliceSequence[V any] []V

func (s sliceSequence[V]) Cursor() Cursor[V] {
	return &sliceCursor[V]{values: s}
}

func (s sliceSequence[V]) Count(context.Context, bool) (int, bool, error) {
	return len(s), true, nil
}

func (s sliceSequence[V]) Len() int { return len(s) }

func (s sliceSequence[V]) CopyTo(dst []V) int { return copy(dst, s) }

type sliceCursor[V any] struct {
	values  []V
	index   int
	current V
	closed  bool
}

func (c *sliceCursor[V]) Next(ctx context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(c.values) <= c.index {
		_ = c.Close(ctx)
		return false, nil
	}
	c.current = c.values[c.index]
	c.index++
	return true, nil
}

func (c *sliceCursor[V]) Value() V { return c.current }

func (c *sliceCursor[V]) Close(context.Context) error {
	c.closed = true
	var zero V
	c.current = zero
	return nil
}

// Error returns a Sequence whose enumeration yields no element, only the given error.
func Error[V any](err error) Sequence[V] {
	return failSequence[V]{err: err}
}

type failSequence[V any] struct{ err error }

func (s failSequence[V]) Cursor() Cursor[V] {
	return &failCursor[V]{err: s.err}
}

type failCursor[V any] struct {
	err    error
	closed bool
}

func (c *failCursor[V]) Next(context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	c.closed = true
	return false, c.err
}

func (c *failCursor[V]) Value() V {
	var zero V
	return zero
}

func (c *failCursor[V]) Close(context.Context) error {
	c.closed = true
	return nil
}

// FromSeq returns a Sequence over a native iter.Seq.
// Each Cursor call pulls the iter.Seq from its beginning,
// so the sequence is as re-enumerable as the iter.Seq itself.
// The length of an iter.Seq is unknown until iterated,
// so bulk operations on it fall back to a full scan.
func FromSeq[V any](s iter.Seq[V]) Sequence[V] {
	return seqSequence[V]{seq: s}
}

type seqSequence[V any] struct{ seq iter.Seq[V] }

func (s seqSequence[V]) Cursor() Cursor[V] {
	next, stop := iter.Pull(s.seq)
	return &pullCursor[V]{next: next, stop: stop}
}

type pullCursor[V any] struct {
	next    func() (V, bool)
	stop    func()
	current V
	closed  bool
}

func (c *pullCursor[V]) Next(ctx context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		_ = c.Close(ctx)
		return false, err
	}
	v, ok := c.next()
	if !ok {
		_ = c.Close(ctx)
		return false, nil
	}
	c.current = v
	return true, nil
}

func (c *pullCursor[V]) Value() V { return c.current }

func (c *pullCursor[V]) Close(context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.stop()
	var zero V
	c.current = zero
	return nil
}

// FromErrSeq returns a Sequence over an iter.Seq2[V, error] failable iterator.
// An error element ends the enumeration and is surfaced from Next.
func FromErrSeq[V any](s iter.Seq2[V, error]) Sequence[V] {
	return errSeqSequence[V]{seq: s}
}

type errSeqSequence[V any] struct{ seq iter.Seq2[V, error] }

func (s errSeqSequence[V]) Cursor() Cursor[V] {
	next, stop := iter.Pull2(s.seq)
	return &pull2Cursor[V]{next: next, stop: stop}
}

type pull2Cursor[V any] struct {
	next    func() (V, error, bool)
	stop    func()
	current V
	closed  bool
}

func (c *pull2Cursor[V]) Next(ctx context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		_ = c.Close(ctx)
		return false, err
	}
	v, err, ok := c.next()
	if !ok {
		_ = c.Close(ctx)
		return false, nil
	}
	if err != nil {
		_ = c.Close(ctx)
		return false, err
	}
	c.current = v
	return true, nil
}

func (c *pull2Cursor[V]) Value() V { return c.current }

func (c *pull2Cursor[V]) Close(context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.stop()
	var zero V
	c.current = zero
	return nil
}

// Chan returns a Sequence over a channel.
// Cursors over the same channel compete for its elements,
// and a cursor blocked on a receive honors the cancellation of its ctx.
func Chan[V any](ch <-chan V) Sequence[V] {
	return chanSequence[V]{ch: ch}
}

type chanSequence[V any] struct{ ch <-chan V }

func (s chanSequence[V]) Cursor() Cursor[V] {
	return &chanCursor[V]{ch: s.ch}
}

type chanCursor[V any] struct {
	ch      <-chan V
	current V
	closed  bool
}

func (c *chanCursor[V]) Next(ctx context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case v, ok := <-c.ch:
		if !ok {
			_ = c.Close(ctx)
			return false, nil
		}
		c.current = v
		return true, nil
	}
}

func (c *chanCursor[V]) Value() V { return c.current }

func (c *chanCursor[V]) Close(context.Context) error {
	c.closed = true
	var zero V
	c.current = zero
	return nil
}

// FromCursor adapts an already opened cursor into a Sequence.
//
// The result is inherently single use: the first Cursor call hands out the
// wrapped cursor, and every later call returns a cursor that fails with
// ErrNotClonable, since an independent re-enumeration cannot be produced
// from an opaque cursor.
func FromCursor[V any](cursor Cursor[V]) Sequence[V] {
	if cursor == nil {
		panic("seqkit.FromCursor called with a nil cursor")
	}
	return &cursorSequence[V]{cursor: cursor}
}

type cursorSequence[V any] struct {
	cursor Cursor[V]
	taken  atomic.Bool
}

func (s *cursorSequence[V]) Cursor() Cursor[V] {
	if s.taken.CompareAndSwap(false, true) {
		return s.cursor
	}
	return &failCursor[V]{err: ErrNotClonable}
}

// ToErrSeq bridges a Sequence into a native iter.Seq2[V, error] iterator.
// The sequence errors are yielded as the final element of the iteration.
func ToErrSeq[V any](ctx context.Context, src Sequence[V]) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		cursor := src.Cursor()
		defer cursor.Close(context.WithoutCancel(ctx))
		for {
			ok, err := cursor.Next(ctx)
			if err != nil {
				var zero V
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(cursor.Value(), nil) {
				return
			}
		}
	}
}
