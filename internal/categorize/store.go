// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "categorize:"

// Store keeps finished categorizations so an interrupted run can resume.
type Store interface {
	// Load returns the stored category of every id that has one.
	Load(ctx context.Context, ids []string) (map[string]string, error)
	// Save stores categories by idea id.
	Save(ctx context.Context, categories map[string]string) error
	// Clear removes everything the store holds.
	Clear(ctx context.Context) error
	Close() error
}

// BadgerStore implements Store using BadgerDB for persistence.
type BadgerStore struct {
	db     *badger.DB
	prefix string
}

// OpenBadgerStore opens (or creates) a badger directory at path. Keys are
// scoped by model so switching models does not reuse old answers.
func OpenBadgerStore(path, model string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open categorization cache %s: %w", path, err)
	}
	return NewBadgerStore(db, model), nil
}

// NewBadgerStore wraps an open BadgerDB instance.
func NewBadgerStore(db *badger.DB, model string) *BadgerStore {
	return &BadgerStore{db: db, prefix: keyPrefix + model + ":"}
}

func (s *BadgerStore) key(id string) []byte {
	return []byte(s.prefix + id)
}

// Load reads the stored categories for ids.
func (s *BadgerStore) Load(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get(s.key(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				out[id] = string(val)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return out, nil
}

// Save writes categories in a single batch.
func (s *BadgerStore) Save(_ context.Context, categories map[string]string) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for id, category := range categories {
		if err := wb.Set(s.key(id), []byte(category)); err != nil {
			return fmt.Errorf("save category %s: %w", id, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// Clear removes every stored category for this model.
func (s *BadgerStore) Clear(_ context.Context) error {
	return s.db.DropPrefix([]byte(s.prefix))
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// MemoryStore implements Store in memory.
// This is useful for testing or when persistence is not required.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{categories: make(map[string]string)}
}

// Load returns the stored categories for ids.
func (s *MemoryStore) Load(_ context.Context, ids []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// Save copies categories into the store.
func (s *MemoryStore) Save(_ context.Context, categories map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range categories {
		s.categories[id] = c
	}
	return nil
}

// Clear removes the stored categories.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[string]string)
	return nil
}

// Close releases nothing.
func (s *MemoryStore) Close() error { return nil }
