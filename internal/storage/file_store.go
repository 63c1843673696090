package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dsasheet/internal/domain"
)

// FileStore implements domain.SheetStore on a single JSON file.
// Useful for tests and for users who want a greppable data file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*domain.PersistedSheet, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, domain.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("read sheet file: %w", err)
	}

	var sheet domain.PersistedSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		log.Printf("file store: %s is malformed, ignoring: %v", s.path, err)
		return nil, domain.ErrNoDocument
	}
	if sheet.Topics == nil {
		return nil, domain.ErrNoDocument
	}
	return &sheet, nil
}

func (s *FileStore) Save(sheet *domain.PersistedSheet) error {
	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sheet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Write-then-rename so a crash mid-save can't corrupt the document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write sheet file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace sheet file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
