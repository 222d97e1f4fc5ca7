// Package mem provides in-memory implementations of the store primitives.
//
// The staging snapshot keeps its writes local until they are committed to
// the parent, which gives the all-or-nothing semantics a transaction
// execution requires.
package mem

import (
	"github.com/chainkitchen/foodchain/core/store"
)

// Snapshot is an in-memory implementation of a store snapshot.
//
// - implements store.Snapshot
type Snapshot struct {
	values map[string][]byte
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		values: make(map[string][]byte),
	}
}

// Get implements store.Readable. It returns nil if the key is not set.
func (snap *Snapshot) Get(key []byte) ([]byte, error) {
	return snap.values[string(key)], nil
}

// Set implements store.Writable.
func (snap *Snapshot) Set(key, value []byte) error {
	snap.values[string(key)] = value

	return nil
}

// Delete implements store.Writable.
func (snap *Snapshot) Delete(key []byte) error {
	delete(snap.values, string(key))

	return nil
}

// Staging is a snapshot that records its writes locally and only applies
// them to the parent when committed. A read that misses the local updates
// falls through to the parent.
//
// - implements store.Snapshot
type Staging struct {
	parent  store.Snapshot
	updates map[string][]byte
	deleted map[string]struct{}
}

// NewStaging creates a staging snapshot on top of the parent.
func NewStaging(parent store.Snapshot) *Staging {
	return &Staging{
		parent:  parent,
		updates: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

// Get implements store.Readable.
func (s *Staging) Get(key []byte) ([]byte, error) {
	str := string(key)

	if _, ok := s.deleted[str]; ok {
		return nil, nil
	}

	if value, ok := s.updates[str]; ok {
		return value, nil
	}

	return s.parent.Get(key)
}

// Set implements store.Writable.
func (s *Staging) Set(key, value []byte) error {
	str := string(key)

	delete(s.deleted, str)
	s.updates[str] = value

	return nil
}

// Delete implements store.Writable.
func (s *Staging) Delete(key []byte) error {
	str := string(key)

	delete(s.updates, str)
	s.deleted[str] = struct{}{}

	return nil
}

// Commit applies the staged writes to the parent snapshot.
func (s *Staging) Commit() error {
	for key := range s.deleted {
		err := s.parent.Delete([]byte(key))
		if err != nil {
			return err
		}
	}

	for key, value := range s.updates {
		err := s.parent.Set([]byte(key), value)
		if err != nil {
			return err
		}
	}

	s.updates = make(map[string][]byte)
	s.deleted = make(map[string]struct{})

	return nil
}
