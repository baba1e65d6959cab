package boltseq_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	bolt "go.etcd.io/bbolt"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/seqkit"
	"go.llib.dev/seqkit/boltseq"
	"go.llib.dev/seqkit/seqkitcontract"
)

var bucketName = []byte("entries")

func openTestDB(tb testing.TB, seed map[string]string) *bolt.DB {
	tb.Helper()
	db, err := bolt.Open(filepath.Join(tb.TempDir(), "seq.db"), 0600, nil)
	assert.NoError(tb, err)
	tb.Cleanup(func() { assert.NoError(tb, db.Close()) })
	assert.NoError(tb, db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for k, v := range seed {
			if err := bucket.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	}))
	return db
}

func TestBucket(t *testing.T) {
	s := testcase.NewSpec(t)

	ctx := context.Background()
	seed := map[string]string{"a": "1", "b": "2", "c": "3"}
	db := testcase.Let(s, func(t *testcase.T) *bolt.DB {
		return openTestDB(t, seed)
	})
	subject := testcase.Let(s, func(t *testcase.T) boltseq.Bucket {
		return boltseq.Bucket{DB: db.Get(t), Name: bucketName}
	})

	s.Then("the entries are enumerated in key order", func(t *testcase.T) {
		entries, err := seqkit.Collect[boltseq.Entry](ctx, subject.Get(t))
		assert.NoError(t, err)

		expected := []boltseq.Entry{
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte("b"), Value: []byte("2")},
			{Key: []byte("c"), Value: []byte("3")},
		}
		assert.Equal(t, "", cmp.Diff(expected, entries))
	})

	s.Then("the count is read from the bucket statistics", func(t *testcase.T) {
		n, ok, err := seqkit.CountCheap[boltseq.Entry](ctx, subject.Get(t))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, len(seed), n)
	})

	s.Then("the entries remain valid after the cursor is closed", func(t *testcase.T) {
		cursor := subject.Get(t).Cursor()
		ok, err := cursor.Next(ctx)
		assert.NoError(t, err)
		assert.True(t, ok)
		entry := cursor.Value()
		assert.NoError(t, cursor.Close(ctx))
		assert.Equal(t, "", cmp.Diff(boltseq.Entry{Key: []byte("a"), Value: []byte("1")}, entry))
	})

	s.Then("independent enumerations run at the same time", func(t *testcase.T) {
		first := subject.Get(t).Cursor()
		defer first.Close(ctx)
		ok, err := first.Next(ctx)
		assert.NoError(t, err)
		assert.True(t, ok)

		entries, err := seqkit.Collect[boltseq.Entry](ctx, subject.Get(t))
		assert.NoError(t, err)
		assert.Equal(t, len(seed), len(entries))

		ok, err = first.Next(ctx)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "b", string(first.Value().Key))
	})

	s.Then("composing on the bucket keeps the count cheap", func(t *testcase.T) {
		seq := seqkit.Append[boltseq.Entry](subject.Get(t), boltseq.Entry{Key: []byte("z")})
		n, ok, err := seqkit.CountCheap(ctx, seq)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, len(seed)+1, n)
	})

	s.When("the bucket does not exist", func(s *testcase.Spec) {
		missing := testcase.Let(s, func(t *testcase.T) boltseq.Bucket {
			return boltseq.Bucket{DB: db.Get(t), Name: []byte("no-such-bucket")}
		})

		s.Then("the enumeration fails with ErrNoBucket", func(t *testcase.T) {
			_, err := seqkit.Collect[boltseq.Entry](ctx, missing.Get(t))
			assert.ErrorIs(t, err, boltseq.ErrNoBucket)
		})

		s.Then("the count fails with ErrNoBucket", func(t *testcase.T) {
			_, _, err := seqkit.CountCheap[boltseq.Entry](ctx, missing.Get(t))
			assert.ErrorIs(t, err, boltseq.ErrNoBucket)
		})
	})

	s.Test("a pending cancellation fails the advance", func(t *testcase.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cursor := subject.Get(t).Cursor()
		defer cursor.Close(context.Background())
		ok, err := cursor.Next(ctx)
		assert.False(t, ok)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBucket_implementsContract(t *testing.T) {
	seqkitcontract.Sequence[boltseq.Entry](func(tb testing.TB) seqkit.Sequence[boltseq.Entry] {
		seed := make(map[string]string)
		for i := 0; i < 5; i++ {
			seed[fmt.Sprintf("key-%d", i)] = fmt.Sprintf("value-%d", i)
		}
		return boltseq.Bucket{DB: openTestDB(tb, seed), Name: bucketName}
	}).Test(t)
}
