package storage_test

import (
	"errors"
	"strings"
	"testing"

	"dsasheet/internal/domain"
	"dsasheet/internal/storage"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	topics := testSheet().Topics

	blob, err := storage.EncodeSnapshot(topics)
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	if !strings.Contains(string(blob), `"version"`) {
		t.Error("expected version field in export")
	}
	if !strings.Contains(string(blob), `"exportedAt"`) {
		t.Error("expected exportedAt field in export")
	}

	decoded, err := storage.DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if len(decoded) != 1 || decoded[0].SubTopics[0].Questions[0].Title != "Two Sum" {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestDecodeSnapshot_Rejections(t *testing.T) {
	blobs := map[string]string{
		"not json":      `garbage`,
		"wrong shape":   `{"version":1,"topics":"not-an-array"}`,
		"missing field": `{"version":1}`,
	}
	for name, blob := range blobs {
		if _, err := storage.DecodeSnapshot([]byte(blob)); !errors.Is(err, domain.ErrBadSnapshot) {
			t.Errorf("%s: expected ErrBadSnapshot, got %v", name, err)
		}
	}
}

func TestDecodeSnapshot_ToleratesForeignVersion(t *testing.T) {
	blob := `{"version":99,"topics":[]}`
	topics, err := storage.DecodeSnapshot([]byte(blob))
	if err != nil {
		t.Fatalf("expected foreign version to decode, got %v", err)
	}
	if topics == nil || len(topics) != 0 {
		t.Errorf("expected empty topic list, got %+v", topics)
	}
}
