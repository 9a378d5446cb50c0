package kv

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"invoicedesk/internal/domain"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": NewSQLite(db, nil),
	}
}

func TestStore_Contract(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			exerciseStore(t, store)
		})
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(got, &decoded); err != nil || decoded["a"] != 2 {
		t.Fatalf("unexpected value %s", got)
	}
	if err := store.Clear(ctx, "k"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
	if err := store.Clear(ctx, "k"); err != nil {
		t.Fatalf("clearing an absent key should succeed: %v", err)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	buf := []byte("abc")
	_ = store.Set(ctx, "k", buf)
	buf[0] = 'z'
	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store kept a reference to the caller's slice: %s", got)
	}
}
