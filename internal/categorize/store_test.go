// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("badger.Open() error = %v", err)
	}
	return db
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"badger": func(t *testing.T) Store { return NewBadgerStore(openTestBadger(t), "test-model") },
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer store.Close()

			got, err := store.Load(ctx, []string{"a"})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Load() on empty store = %v", got)
			}

			if err := store.Save(ctx, map[string]string{"a": "Software", "b": "Energy"}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err = store.Load(ctx, []string{"a", "b", "c"})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(map[string]string{"a": "Software", "b": "Energy"}, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}

			if err := store.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			got, err = store.Load(ctx, []string{"a", "b"})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Load() after Clear = %v", got)
			}
		})
	}
}

func TestBadgerStoreScopesByModel(t *testing.T) {
	ctx := context.Background()
	db := openTestBadger(t)
	defer db.Close()

	flash := NewBadgerStore(db, "flash")
	pro := NewBadgerStore(db, "pro")
	if err := flash.Save(ctx, map[string]string{"a": "Software"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := pro.Load(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("other model's answers leaked: %v", got)
	}
}

func TestOpenBadgerStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadgerStore(dir, "m")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	if err := store.Save(ctx, map[string]string{"x": "Energy"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerStore(dir, "m")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx, []string{"x"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["x"] != "Energy" {
		t.Errorf("reopened store lost data: %v", got)
	}
}
