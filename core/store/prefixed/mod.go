// Package prefixed implements a store where the keys are domain separated by
// a prefix, so that two contracts sharing the same snapshot cannot collide.
package prefixed

import (
	"crypto/sha256"
	"encoding/binary"

	"go.dedis.ch/caisse/core/store"
)

type readable struct {
	store.Readable
	prefix []byte
}

type writable struct {
	store.Writable
	prefix []byte
}

type snapshot struct {
	*writable
	*readable
}

// NewSnapshot creates a new prefixed snapshot.
func NewSnapshot(prefix string, snap store.Snapshot) store.Snapshot {
	p := []byte(prefix)

	return &snapshot{
		&writable{snap, p},
		&readable{snap, p},
	}
}

// NewReadable creates a new prefixed readable store.
func NewReadable(prefix string, r store.Readable) store.Readable {
	return &readable{r, []byte(prefix)}
}

// Get implements store.Readable. It reads the value of the prefixed key.
func (s *readable) Get(key []byte) ([]byte, error) {
	return s.Readable.Get(NewPrefixedKey(s.prefix, key))
}

// Set implements store.Writable. It writes the value to the prefixed key.
func (s *writable) Set(key []byte, value []byte) error {
	return s.Writable.Set(NewPrefixedKey(s.prefix, key), value)
}

// Delete implements store.Writable. It deletes the prefixed key.
func (s *writable) Delete(key []byte) error {
	return s.Writable.Delete(NewPrefixedKey(s.prefix, key))
}

// NewPrefixedKey creates a 256-bit key from a prefix and a base key. The
// lengths are part of the digest so that two different pairs cannot produce
// the same key.
func NewPrefixedKey(prefix, key []byte) []byte {
	h := sha256.New()

	length := make([]byte, 2)
	binary.LittleEndian.PutUint16(length, uint16(len(prefix)))

	h.Write(length)
	h.Write(prefix)

	binary.LittleEndian.PutUint16(length, uint16(len(key)))

	h.Write(length)
	h.Write(key)

	return h.Sum(nil)
}
