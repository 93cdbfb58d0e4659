package fake

// InMemorySnapshot is a fake implementation of a store snapshot.
//
// - implements store.Snapshot
type InMemorySnapshot struct {
	store     map[string][]byte
	ErrRead   error
	ErrWrite  error
	ErrDelete error
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		store: make(map[string][]byte),
	}
}

// NewBadSnapshot creates a new empty snapshot that will always return an
// error.
func NewBadSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		store:     make(map[string][]byte),
		ErrRead:   GetError(),
		ErrWrite:  GetError(),
		ErrDelete: GetError(),
	}
}

// Get implements store.Readable.
func (snap *InMemorySnapshot) Get(key []byte) ([]byte, error) {
	return snap.store[string(key)], snap.ErrRead
}

// Set implements store.Writable.
func (snap *InMemorySnapshot) Set(key, value []byte) error {
	if snap.ErrWrite != nil {
		return snap.ErrWrite
	}

	snap.store[string(key)] = value

	return nil
}

// Delete implements store.Writable.
func (snap *InMemorySnapshot) Delete(key []byte) error {
	if snap.ErrDelete != nil {
		return snap.ErrDelete
	}

	delete(snap.store, string(key))

	return nil
}
