package snapshot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"evcharge-dashboard-go/internal/models"
)

func testRoundTrip(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := store.Put(ctx, "db", []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "db", []byte("second")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := store.Get(ctx, "db")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(data, []byte("second")) {
		t.Errorf("Expected last write to win, got %q", data)
	}

	if err := store.Delete(ctx, "db"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "db"); err != nil {
		t.Fatalf("Deleting an absent key should not fail: %v", err)
	}
	if _, err := store.Get(ctx, "db"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	testRoundTrip(t, store)

	// No temp files left behind
	if err := store.Put(context.Background(), "db", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "db" {
		t.Errorf("Unexpected directory contents: %v", entries)
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := store.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Expected error for key %q", key)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testRoundTrip(t, store)

	// Returned slices are copies
	ctx := context.Background()
	buf := []byte("abc")
	_ = store.Put(ctx, "k", buf)
	buf[0] = 'z'
	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Expected stored copy, got %q", got)
	}

	store.FailPut = errors.New("disk full")
	if err := store.Put(ctx, "k", []byte("new")); err == nil {
		t.Error("Expected injected Put failure")
	}
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, models.SnapshotConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("New memory failed: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("Expected *MemoryStore, got %T", store)
	}

	store, err = New(ctx, models.SnapshotConfig{Backend: "file", Dir: filepath.Join(t.TempDir(), "snap")})
	if err != nil {
		t.Fatalf("New file failed: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("Expected *FileStore, got %T", store)
	}

	if _, err := New(ctx, models.SnapshotConfig{Backend: "floppy"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
