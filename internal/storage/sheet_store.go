package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"dsasheet/internal/domain"
)

// documentKey matches the single localStorage key the sheet has always
// been stored under, so the stored payload stays recognizable.
const documentKey = "question-sheet-data"

// SheetStore implements domain.SheetStore on SQLite: the whole document
// is one serialized row, which keeps a save atomic by construction.
type SheetStore struct {
	db *DB
}

func NewSheetStore(db *DB) *SheetStore {
	return &SheetStore{db: db}
}

func (s *SheetStore) Load() (*domain.PersistedSheet, error) {
	var data string
	err := s.db.conn.QueryRow(
		`SELECT data FROM sheet_documents WHERE key = ?`, documentKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}

	var sheet domain.PersistedSheet
	if err := json.Unmarshal([]byte(data), &sheet); err != nil {
		// A corrupt row is treated as absent so the caller can re-seed.
		log.Printf("sheet store: stored document is malformed, ignoring: %v", err)
		return nil, domain.ErrNoDocument
	}
	if sheet.Topics == nil {
		return nil, domain.ErrNoDocument
	}
	return &sheet, nil
}

func (s *SheetStore) Save(sheet *domain.PersistedSheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("marshal sheet: %w", err)
	}
	_, err = s.db.conn.Exec(
		`INSERT INTO sheet_documents (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		documentKey, string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save sheet: %w", err)
	}
	return nil
}

func (s *SheetStore) Clear() error {
	_, err := s.db.conn.Exec(`DELETE FROM sheet_documents WHERE key = ?`, documentKey)
	return err
}
