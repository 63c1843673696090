package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dsasheet/internal/domain"
	"dsasheet/internal/storage"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	store := storage.NewFileStore(path)

	if _, err := store.Load(); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument for missing file, got %v", err)
	}

	if err := store.Save(testSheet()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Topics[0].SubTopics[0].Questions[0].Title != "Two Sum" {
		t.Errorf("unexpected document: %+v", loaded)
	}
}

func TestFileStore_MalformedFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(path, []byte("{ not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	store := storage.NewFileStore(path)
	if _, err := store.Load(); !errors.Is(err, domain.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument for corrupt file, got %v", err)
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	store := storage.NewFileStore(path)

	// Clearing a missing file is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing file failed: %v", err)
	}

	if err := store.Save(testSheet()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
}
