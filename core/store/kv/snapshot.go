//
// This file contains an adapter to use a bucket of an open transaction as a
// store snapshot, so that a contract can be executed directly against the
// database with all-or-nothing semantics.
//

package kv

import (
	"go.dedis.ch/caisse/core/store"
)

// Snapshot is a store snapshot backed by a bucket of an open database
// transaction. The writes are committed, or rolled back, alongside the
// transaction.
//
// - implements store.Snapshot
type snapshot struct {
	bucket Bucket
}

// NewSnapshot creates a snapshot over the bucket. The snapshot is only valid
// for the lifetime of the transaction that opened the bucket.
func NewSnapshot(bucket Bucket) store.Snapshot {
	return snapshot{bucket: bucket}
}

// Get implements store.Readable. It returns a copy of the value, as the
// underlying memory is owned by the transaction.
func (s snapshot) Get(key []byte) ([]byte, error) {
	value := s.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// Set implements store.Writable. It writes the value to the bucket.
func (s snapshot) Set(key, value []byte) error {
	return s.bucket.Set(key, value)
}

// Delete implements store.Writable. It deletes the key from the bucket.
func (s snapshot) Delete(key []byte) error {
	return s.bucket.Delete(key)
}
