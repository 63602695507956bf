package docstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/moneer95/photocat/internal/storage"
	"github.com/moneer95/photocat/internal/storage/docstore"
)

func newAdapter(t *testing.T) *docstore.Adapter {
	t.Helper()

	path := filepath.Join(t.TempDir(), "photocat.db")
	adapter, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := adapter.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return adapter
}

func seedPhotos(t *testing.T, adapter *docstore.Adapter) {
	t.Helper()

	ctx := context.Background()
	records := []storage.Record{
		{"id": json.Number("1"), "title": "Beach", "owner": "u1", "tags": []any{"a"}},
		{"id": "2", "title": "Mountain", "owner": "u2", "tags": []any{}},
	}
	if err := adapter.Write(ctx, "photos", records, false); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
}

func TestOpenCreatesEmptyCollections(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	if err := adapter.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	records, err := adapter.Read(ctx, "photos", nil, false)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestReadSingleLooseIDMatch(t *testing.T) {
	adapter := newAdapter(t)
	seedPhotos(t, adapter)
	ctx := context.Background()

	// Stored id is a JSON number; the filter uses a string.
	records, err := adapter.Read(ctx, "photos", storage.Filter{"id": "1"}, true)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(records) != 1 || records[0]["title"] != "Beach" {
		t.Fatalf("unexpected result: %v", records)
	}

	if _, err := adapter.Read(ctx, "photos", storage.Filter{"id": "999"}, true); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadPreservesInsertionOrder(t *testing.T) {
	adapter := newAdapter(t)
	seedPhotos(t, adapter)

	records, err := adapter.Read(context.Background(), "photos", nil, false)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["title"] != "Beach" || records[1]["title"] != "Mountain" {
		t.Fatalf("expected insertion order, got %v", records)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	if err := adapter.Write(ctx, "albums", []storage.Record{{"id": "10", "name": "Trip"}}, true); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	photos, err := adapter.Read(ctx, "photos", nil, false)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(photos) != 0 {
		t.Fatalf("expected photos to stay empty, got %v", photos)
	}
}

func TestUpdateSetsFieldsPartially(t *testing.T) {
	adapter := newAdapter(t)
	seedPhotos(t, adapter)
	ctx := context.Background()

	matched, err := adapter.Update(ctx, "photos", storage.Filter{"id": "1"}, storage.Patch{
		"title": "Sunset",
		"tags":  []string{"a", "vacation"},
	}, true)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected 1 matched, got %d", matched)
	}

	record, err := storage.ReadOne(ctx, adapter, "photos", storage.Filter{"id": "1"})
	if err != nil {
		t.Fatalf("ReadOne returned error: %v", err)
	}
	if record["title"] != "Sunset" {
		t.Fatalf("expected patched title, got %v", record["title"])
	}
	if record["owner"] != "u1" {
		t.Fatalf("expected untouched owner, got %v", record["owner"])
	}

	tags, ok := record["tags"].([]any)
	if !ok || len(tags) != 2 || tags[1] != "vacation" {
		t.Fatalf("expected patched tags array, got %v", record["tags"])
	}
}

func TestUpdateSingleAffectsFirstMatchOnly(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	records := []storage.Record{
		{"id": "1", "owner": "u1", "title": "one"},
		{"id": "2", "owner": "u1", "title": "two"},
	}
	if err := adapter.Write(ctx, "photos", records, false); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	matched, err := adapter.Update(ctx, "photos", storage.Filter{"owner": "u1"}, storage.Patch{"title": "patched"}, true)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected 1 matched, got %d", matched)
	}

	second, err := storage.ReadOne(ctx, adapter, "photos", storage.Filter{"id": "2"})
	if err != nil {
		t.Fatalf("ReadOne returned error: %v", err)
	}
	if second["title"] != "two" {
		t.Fatalf("expected second record untouched, got %v", second["title"])
	}
}

func TestUpdateNoMatchReportsZero(t *testing.T) {
	adapter := newAdapter(t)
	seedPhotos(t, adapter)

	matched, err := adapter.Update(context.Background(), "photos", storage.Filter{"id": "999"}, storage.Patch{"title": "x"}, true)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if matched != 0 {
		t.Fatalf("expected 0 matched, got %d", matched)
	}
}

func TestDeleteManyRemovesAllMatches(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()

	records := []storage.Record{
		{"id": "1", "owner": "u1"},
		{"id": "2", "owner": "u1"},
		{"id": "3", "owner": "u2"},
	}
	if err := adapter.Write(ctx, "photos", records, false); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	deleted, err := adapter.Delete(ctx, "photos", storage.Filter{"owner": "u1"}, false)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	remaining, err := adapter.Read(ctx, "photos", nil, false)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(remaining) != 1 || remaining[0]["id"] != "3" {
		t.Fatalf("unexpected remaining records: %v", remaining)
	}
}
