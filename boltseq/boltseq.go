// Package boltseq provides seqkit sequences backed by bbolt buckets.
package boltseq

import (
	"bytes"
	"context"

	bolt "go.etcd.io/bbolt"

	"go.llib.dev/seqkit"
	"go.llib.dev/seqkit/internal/errorkitlite"
)

const ErrNoBucket errorkitlite.Error = "boltseq: bucket not found"

// Entry is a key value pair read from a bucket.
type Entry struct {
	Key   []byte
	Value []byte
}

// Bucket is a seqkit.Sequence over the entries of a bbolt bucket, in key order.
//
// A Bucket value is only a description; no transaction is held by it.
// Every cursor opens its own read transaction lazily on the first advance,
// so any number of independent enumerations can run at the same time.
// Keys and values are copied out of the transaction,
// which keeps them valid after the cursor is closed.
type Bucket struct {
	DB   *bolt.DB
	Name []byte
}

func (b Bucket) Cursor() seqkit.Cursor[Entry] {
	return &bucketCursor{db: b.DB, name: b.Name}
}

// Count reports the number of keys from the bucket statistics,
// without reading the entries themselves.
func (b Bucket) Count(ctx context.Context, onlyIfCheap bool) (n int, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	err = b.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.Name)
		if bucket == nil {
			return ErrNoBucket
		}
		n = bucket.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

var _ interface {
	seqkit.Sequence[Entry]
	seqkit.Countable
} = Bucket{}

type bucketCursor struct {
	db      *bolt.DB
	name    []byte
	tx      *bolt.Tx
	cursor  *bolt.Cursor
	current Entry
	started bool
	closed  bool
}

func (c *bucketCursor) Next(ctx context.Context) (bool, error) {
	if c.closed {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, errorkitlite.Merge(err, c.Close(context.WithoutCancel(ctx)))
	}
	var key, value []byte
	if !c.started {
		c.started = true
		tx, err := c.db.Begin(false)
		if err != nil {
			return false, errorkitlite.Merge(err, c.Close(ctx))
		}
		c.tx = tx
		bucket := tx.Bucket(c.name)
		if bucket == nil {
			return false, errorkitlite.Merge(ErrNoBucket, c.Close(ctx))
		}
		c.cursor = bucket.Cursor()
		key, value = c.cursor.First()
	} else {
		key, value = c.cursor.Next()
	}
	if key == nil {
		return false, c.Close(ctx)
	}
	c.current = Entry{Key: bytes.Clone(key), Value: bytes.Clone(value)}
	return true, nil
}

func (c *bucketCursor) Value() Entry { return c.current }

func (c *bucketCursor) Close(context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.current = Entry{}
	c.cursor = nil
	if tx := c.tx; tx != nil {
		c.tx = nil
		return tx.Rollback()
	}
	return nil
}
