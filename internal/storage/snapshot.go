package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"dsasheet/internal/domain"
)

// SnapshotVersion is written into every export.
const SnapshotVersion = 1

// Snapshot is the versioned export/import format for the full document.
type Snapshot struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Topics     []domain.Topic `json:"topics"`
}

// EncodeSnapshot serializes the topic tree into a pretty-printed export blob.
func EncodeSnapshot(topics []domain.Topic) ([]byte, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Topics:     topics,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses an export blob and validates that it carries a
// topic sequence. Unknown version values are tolerated as long as the
// topics shape is compatible; anything else is rejected.
func DecodeSnapshot(data []byte) ([]domain.Topic, error) {
	// Only the topics field matters for validity; exportedAt and version
	// are allowed to be absent or of a foreign vintage.
	var snap struct {
		Topics []domain.Topic `json:"topics"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadSnapshot, err)
	}
	if snap.Topics == nil {
		return nil, fmt.Errorf("%w: missing topics", domain.ErrBadSnapshot)
	}
	return snap.Topics, nil
}
