package seqkit

import (
	"context"

	"go.llib.dev/seqkit/internal/errorkitlite"
)

// Count returns the total number of elements the sequence produces.
//
// When the sequence reports its own length through the Countable capability,
// the answer is composed in O(1) without enumeration;
// otherwise the sequence is fully enumerated and the iterations are counted.
func Count[V any](ctx context.Context, src Sequence[V]) (int, error) {
	if src == nil {
		return 0, nil
	}
	if countable, ok := src.(Countable); ok {
		n, known, err := countable.Count(ctx, false)
		if err != nil {
			return 0, err
		}
		if known {
			return n, nil
		}
	}
	return scanCount(ctx, src)
}

// CountCheap returns the number of elements only when it is known without enumeration.
// ok=false means the length is unknown; it is not an error,
// it simply tells that answering would require a full scan.
func CountCheap[V any](ctx context.Context, src Sequence[V]) (int, bool, error) {
	if src == nil {
		return 0, true, nil
	}
	if countable, ok := src.(Countable); ok {
		return countable.Count(ctx, true)
	}
	return 0, false, nil
}

// Collect materializes the sequence into a slice.
//
// When the sequence can report its length cheaply, the result is allocated
// at its exact final size up front, and sources that hold their elements
// in memory are bulk copied instead of being enumerated element by element.
func Collect[V any](ctx context.Context, src Sequence[V]) ([]V, error) {
	if src == nil {
		return nil, nil
	}
	if bulk, ok := src.(collector[V]); ok {
		return bulk.collect(ctx)
	}
	if collection, ok := src.(Collection[V]); ok {
		out := make([]V, collection.Len())
		collection.CopyTo(out)
		return out, nil
	}
	return scanInto(ctx, src, make([]V, 0))
}

// CollectList materializes the sequence into a List,
// preserving the enumeration order.
func CollectList[V any](ctx context.Context, src Sequence[V]) (*List[V], error) {
	var list List[V]
	if src == nil {
		return &list, nil
	}
	if bulk, ok := src.(collector[V]); ok {
		vs, err := bulk.collect(ctx)
		if err != nil {
			return nil, err
		}
		list.Append(vs...)
		return &list, nil
	}
	if err := ForEach(ctx, src, func(v V) error {
		list.Append(v)
		return nil
	}); err != nil {
		return nil, err
	}
	return &list, nil
}

// ForEach executes the block for every element of the sequence.
// The enumeration stops at the first error, either from the block or from the sequence,
// and the cursor is released on every return path.
func ForEach[V any](ctx context.Context, src Sequence[V], blk func(v V) error) (rErr error) {
	if src == nil {
		return nil
	}
	cursor := src.Cursor()
	defer errorkitlite.Finish(&rErr, func() error {
		return cursor.Close(context.WithoutCancel(ctx))
	})
	for {
		ok, err := cursor.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := blk(cursor.Value()); err != nil {
			return err
		}
	}
}

// sourceCount resolves the length of an upstream source for the composed sequences.
func sourceCount[V any](ctx context.Context, src Sequence[V], onlyIfCheap bool) (int, bool, error) {
	if countable, ok := src.(Countable); ok {
		return countable.Count(ctx, onlyIfCheap)
	}
	if onlyIfCheap {
		return 0, false, nil
	}
	n, err := scanCount(ctx, src)
	return n, err == nil, err
}

func scanCount[V any](ctx context.Context, src Sequence[V]) (n int, rErr error) {
	cursor := src.Cursor()
	defer errorkitlite.Finish(&rErr, func() error {
		return cursor.Close(context.WithoutCancel(ctx))
	})
	for {
		ok, err := cursor.Next(ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

func scanInto[V any](ctx context.Context, src Sequence[V], out []V) (_ []V, rErr error) {
	cursor := src.Cursor()
	defer errorkitlite.Finish(&rErr, func() error {
		return cursor.Close(context.WithoutCancel(ctx))
	})
	for {
		ok, err := cursor.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, cursor.Value())
	}
}

// copySource fills dst from the source, preferring the bulk copy capability,
// and falling back to a cursor driven scan that stops once dst is full.
func copySource[V any](ctx context.Context, src Sequence[V], dst []V) (n int, rErr error) {
	if collection, ok := src.(Collection[V]); ok {
		return collection.CopyTo(dst), nil
	}
	cursor := src.Cursor()
	defer errorkitlite.Finish(&rErr, func() error {
		return cursor.Close(context.WithoutCancel(ctx))
	})
	for n < len(dst) {
		ok, err := cursor.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			break
		}
		dst[n] = cursor.Value()
		n++
	}
	return n, nil
}
