package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"dsasheet/internal/domain"
	"dsasheet/internal/storage"
)

func testSheet() *domain.PersistedSheet {
	return &domain.PersistedSheet{
		Topics: []domain.Topic{
			{
				ID:    "arrays",
				Title: "Arrays",
				SubTopics: []domain.SubTopic{
					{
						ID:    "basics",
						Title: "Basics",
						Questions: []domain.Question{
							{ID: "q1", Title: "Two Sum", Difficulty: domain.DifficultyEasy, Platform: domain.PlatformLeetCode, IsSolved: true, TextNote: "hashmap"},
						},
					},
				},
			},
		},
		SelectedTopicID:  "arrays",
		SearchQuery:      "sum",
		DifficultyFilter: domain.FilterEasy,
	}
}

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSheetStore_RoundTrip(t *testing.T) {
	store := storage.NewSheetStore(openTestDB(t))

	if _, err := store.Load(); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument on empty store, got %v", err)
	}

	if err := store.Save(testSheet()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Topics) != 1 || loaded.Topics[0].ID != "arrays" {
		t.Errorf("unexpected topics: %+v", loaded.Topics)
	}
	q := loaded.Topics[0].SubTopics[0].Questions[0]
	if !q.IsSolved || q.TextNote != "hashmap" {
		t.Errorf("question fields lost: %+v", q)
	}
	if loaded.SelectedTopicID != "arrays" || loaded.SearchQuery != "sum" || loaded.DifficultyFilter != domain.FilterEasy {
		t.Errorf("view state lost: %+v", loaded)
	}
}

func TestSheetStore_SaveOverwrites(t *testing.T) {
	store := storage.NewSheetStore(openTestDB(t))

	if err := store.Save(testSheet()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	updated := testSheet()
	updated.Topics[0].Title = "Arrays & Hashing"
	if err := store.Save(updated); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Topics[0].Title != "Arrays & Hashing" {
		t.Errorf("expected overwritten document, got %q", loaded.Topics[0].Title)
	}
}

func TestSheetStore_Clear(t *testing.T) {
	store := storage.NewSheetStore(openTestDB(t))

	if err := store.Save(testSheet()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, domain.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument after clear, got %v", err)
	}
}
