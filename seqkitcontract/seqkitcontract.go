// Package seqkitcontract holds the behavior suite every seqkit.Sequence implementation must honor.
package seqkitcontract

import (
	"context"
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/seqkit"
)

// Contract represents a behavior specification of a role interface.
// Any expectation a consumer has towards a seqkit.Sequence supplier
// should be defined here, so alternative implementations can be verified
// against the same behavioral requirements.
type Contract interface {
	testcase.Suite
	// Test asserts the expected behavioral requirements on a supplier implementation.
	Test(*testing.T)
	// Benchmark helps measuring what matters for the consumers of the role interface.
	Benchmark(*testing.B)
}

// Sequence returns the contract of the seqkit.Sequence role interface.
//
// The mk function must return a sequence that yields at least one element,
// and the returned sequence must be re-enumerable,
// since the contract verifies the independence of repeat enumerations.
func Sequence[V any](mk func(tb testing.TB) seqkit.Sequence[V]) Contract {
	s := testcase.NewSpec(nil)

	subject := testcase.Let(s, func(t *testcase.T) seqkit.Sequence[V] {
		return mk(t)
	})

	s.Then("values can be collected from the sequence", func(t *testcase.T) {
		vs, err := seqkit.Collect(context.Background(), subject.Get(t))
		assert.NoError(t, err)
		assert.NotEmpty(t, vs)
	})

	s.Then("repeat enumerations are independent and identical", func(t *testcase.T) {
		ctx := context.Background()
		first, err := seqkit.Collect(ctx, subject.Get(t))
		assert.NoError(t, err)
		second, err := seqkit.Collect(ctx, subject.Get(t))
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	s.Then("the collected values match a manual cursor driven enumeration", func(t *testcase.T) {
		ctx := context.Background()
		collected, err := seqkit.Collect(ctx, subject.Get(t))
		assert.NoError(t, err)

		var enumerated []V
		cursor := subject.Get(t).Cursor()
		defer cursor.Close(ctx)
		for {
			ok, err := cursor.Next(ctx)
			assert.NoError(t, err)
			if !ok {
				break
			}
			enumerated = append(enumerated, cursor.Value())
		}
		assert.Equal(t, collected, enumerated)
	})

	s.Then("advancing after exhaustion keeps reporting false without an error", func(t *testcase.T) {
		ctx := context.Background()
		cursor := subject.Get(t).Cursor()
		defer cursor.Close(ctx)
		for {
			ok, err := cursor.Next(ctx)
			assert.NoError(t, err)
			if !ok {
				break
			}
		}
		for range 3 {
			ok, err := cursor.Next(ctx)
			assert.NoError(t, err)
			assert.False(t, ok)
		}
	})

	s.Then("closing a cursor is idempotent", func(t *testcase.T) {
		ctx := context.Background()
		cursor := subject.Get(t).Cursor()
		assert.NoError(t, cursor.Close(ctx))
		assert.NoError(t, cursor.Close(ctx))
	})

	s.Then("closing an exhausted cursor is safe", func(t *testcase.T) {
		ctx := context.Background()
		cursor := subject.Get(t).Cursor()
		for {
			ok, err := cursor.Next(ctx)
			assert.NoError(t, err)
			if !ok {
				break
			}
		}
		assert.NoError(t, cursor.Close(ctx))
	})

	s.Then("a pending cancellation fails the advance instead of yielding a value", func(t *testcase.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cursor := subject.Get(t).Cursor()
		defer cursor.Close(context.Background())
		ok, err := cursor.Next(ctx)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ctx.Err())
	})

	s.Then("a closed cursor no longer advances", func(t *testcase.T) {
		ctx := context.Background()
		cursor := subject.Get(t).Cursor()
		assert.NoError(t, cursor.Close(ctx))
		ok, err := cursor.Next(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	return s.AsSuite("seqkit.Sequence")
}
