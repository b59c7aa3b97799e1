package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// BucketStore implements storage.BucketStore for BadgerDB.
type BucketStore struct {
	backend *Backend
}

var _ storage.BucketStore = (*BucketStore)(nil)

// NewBucketStore creates a new BucketStore.
func NewBucketStore(backend *Backend) (storage.BucketStore, error) {
	return &BucketStore{backend: backend}, nil
}

// Close releases resources. BucketStore has no resources to release beyond
// the shared backend, which the owner closes.
func (s *BucketStore) Close() error {
	return nil
}

// PutBuckets writes bucket embeddings, overwriting any existing bucket with
// the same granularity and start date.
func (s *BucketStore) PutBuckets(ctx context.Context, buckets ...*core.BucketEmbedding) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, bucket := range buckets {
			key := makeBucketKey(bucket.Granularity, bucket.BucketStart)
			if err := tx.Set(key, storage.MarshalBucketEmbedding(bucket)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetBuckets retrieves bucket embeddings for a granularity where
// from <= BucketStart < to. Keys encode the start date in sortable byte
// order, so iteration yields ascending buckets directly.
func (s *BucketStore) GetBuckets(ctx context.Context, g core.Granularity, from, to time.Time) ([]*core.BucketEmbedding, error) {
	if !to.After(from) {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.BucketEmbedding
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeBucketPrefix(g)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makeBucketKey(g, from)
		endKey := makeBucketKey(g, to)
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			item := iter.Item()
			if bytes.Compare(item.Key(), endKey) >= 0 {
				break
			}

			var bucket *core.BucketEmbedding
			err := item.Value(func(val []byte) error {
				var err error
				bucket, err = storage.UnmarshalBucketEmbedding(val)
				return err
			})
			if err != nil {
				return err
			}
			if bucket != nil {
				results = append(results, bucket)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteBuckets removes all buckets for a granularity.
func (s *BucketStore) DeleteBuckets(ctx context.Context, g core.Granularity) (int, error) {
	// Collect keys first; deleting while iterating invalidates the iterator.
	var keys [][]byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeBucketPrefix(g)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
