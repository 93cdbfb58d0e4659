// Package mem implements an in-memory store snapshot.
//
// A snapshot keeps its own updates and falls back to its parent when a key is
// not found, so that a staged execution can be thrown away without affecting
// the parent.
package mem

import (
	"go.dedis.ch/caisse/core/store"
	"golang.org/x/xerrors"
)

// Snapshot is an in-memory implementation of a store snapshot. It saves the
// updates in an internal store and only keeps the updates of the current
// snapshot. When reading, it looks up the parent snapshot if the key is not
// found.
//
// - implements store.Snapshot
type Snapshot struct {
	parent  store.Snapshot
	store   map[string][]byte
	deleted map[string]struct{}
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		store:   make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

// Get implements store.Readable. It returns the value of the key, or nil if
// it is not set.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	str := string(key)

	if _, ok := s.deleted[str]; ok {
		return nil, nil
	}

	val, ok := s.store[str]
	if ok {
		return val, nil
	}

	if s.parent == nil {
		return nil, nil
	}

	return s.parent.Get(key)
}

// Set implements store.Writable. It stores the value to the snapshot.
func (s *Snapshot) Set(key, value []byte) error {
	str := string(key)

	delete(s.deleted, str)
	s.store[str] = value

	return nil
}

// Delete implements store.Writable. It marks the key as deleted so that the
// parent value is not visible anymore.
func (s *Snapshot) Delete(key []byte) error {
	str := string(key)

	delete(s.store, str)
	s.deleted[str] = struct{}{}

	return nil
}

// Stage runs the function over a child snapshot of the base. The updates of
// the child are merged into the base only if the function succeeds.
func Stage(base store.Snapshot, fn func(store.Snapshot) error) error {
	child := &Snapshot{
		parent:  base,
		store:   make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}

	err := fn(child)
	if err != nil {
		return err
	}

	for key := range child.deleted {
		err = base.Delete([]byte(key))
		if err != nil {
			return xerrors.Errorf("couldn't delete key: %v", err)
		}
	}

	for key, value := range child.store {
		err = base.Set([]byte(key), value)
		if err != nil {
			return xerrors.Errorf("couldn't set key: %v", err)
		}
	}

	return nil
}
