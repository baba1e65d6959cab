// Package seqkit provides lazy composition for asynchronously produced sequences.
//
// # Summary
//
// A Sequence's goal is to decouple the origin of the data from the consumer who uses that data.
// Unlike an in-memory collection, a Sequence may be backed by a database cursor, a network stream,
// or any other source where producing the next element can block.
// seqkit lets you prepend and append elements to such a sequence without materializing it,
// and without paying a per-call wrapper cost when many composition calls are chained:
// each Append/Prepend returns a new logical sequence in O(1) additional structure,
// and enumeration walks the composed result with per-element work independent of the call count.
//
// Sequences are descriptions, not enumerations.
// Nothing is read from the upstream source until a cursor is opened and advanced,
// and the same composed sequence can be enumerated any number of times,
// each enumeration being fully independent from the others.
//
// # Resources
//
// https://en.wikipedia.org/wiki/Iterator_pattern
package seqkit

import (
	"context"

	"go.llib.dev/seqkit/internal/errorkitlite"
)

// Sequence represents an asynchronously produced series of elements.
// A Sequence value is a reusable description; it holds no iteration state itself.
type Sequence[V any] interface {
	// Cursor returns a cursor positioned before the first element of the sequence.
	// Cursor may be called any number of times, and each returned cursor enumerates independently,
	// sharing no mutable state with the others.
	Cursor() Cursor[V]
}

// Cursor is a single-use stateful handle over a Sequence.
//
// A cursor moves through three lifecycle states: allocated, iterating, and closed.
// The first Next call transitions it from allocated to iterating,
// exhaustion or Close transitions it to closed,
// and once closed every further Next call returns (false, nil).
type Cursor[V any] interface {
	// Next advances the cursor to the next element.
	// It reports true when an element is available through Value,
	// and false when the sequence is exhausted or the cursor is closed.
	// Next may block while the upstream source performs asynchronous work;
	// a pending cancellation on ctx is observed before any such blocking begins,
	// in which case Next fails with the context error instead of advancing.
	Next(ctx context.Context) (bool, error)
	// Value returns the current element.
	// It is well-defined only immediately after a Next call that returned true.
	Value() V
	// Close releases the resources held by the cursor, including any owned upstream cursor.
	// Close is idempotent, and it is invoked implicitly when Next detects exhaustion,
	// so calling it after a completed enumeration is safe.
	Close(ctx context.Context) error
}

// Countable is an optional capability of a Sequence that can report its own length.
//
// Count returns the number of elements the sequence would produce.
// When onlyIfCheap is true and establishing the length would require a full enumeration,
// Count returns ok=false instead of scanning.
// When onlyIfCheap is false, Count always establishes the length, scanning if it must.
type Countable interface {
	Count(ctx context.Context, onlyIfCheap bool) (n int, ok bool, err error)
}

// Collection is an optional capability of a Sequence whose elements are already held in memory.
// It allows bulk materialization to copy elements directly instead of driving a cursor.
type Collection[V any] interface {
	// Len returns the number of elements in the collection.
	Len() int
	// CopyTo copies the elements into dst in sequence order,
	// and returns the number of elements copied.
	// It copies min(Len(), len(dst)) elements, following the copy built-in convention.
	CopyTo(dst []V) int
}

// ErrNotClonable is returned when a new enumeration is requested
// from a sequence that is inherently single use,
// such as one built directly from an already enumerated one-shot cursor.
const ErrNotClonable errorkitlite.Error = "seqkit: sequence is single use, and it was already enumerated"
