package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/storage"
	"github.com/moneer95/photocat/internal/storage/file"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRepository(t *testing.T) catalog.Repository {
	t.Helper()

	adapter, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	ctx := context.Background()

	photos := []storage.Record{
		{
			"id":          json.Number("1"),
			"filename":    "beach.jpg",
			"title":       "Beach",
			"description": "Sand and sea",
			"date":        "2024-01-05",
			"owner":       "u1",
			"albums":      []any{json.Number("10")},
			"tags":        []any{"a"},
		},
		{
			"id":          "2",
			"filename":    "mountain.jpg",
			"title":       "Mountain",
			"description": "",
			"date":        "2023-06-20",
			"owner":       json.Number("7"),
			"albums":      []any{},
			"tags":        []any{},
		},
	}
	if err := adapter.Write(ctx, catalog.CollectionPhotos, photos, false); err != nil {
		t.Fatalf("seed photos: %v", err)
	}

	albums := []storage.Record{
		{"id": json.Number("10"), "name": "Trip"},
		{"id": json.Number("11"), "name": "Family"},
	}
	if err := adapter.Write(ctx, catalog.CollectionAlbums, albums, false); err != nil {
		t.Fatalf("seed albums: %v", err)
	}

	users := []storage.Record{
		{"id": "u1", "username": "mona", "password": "secret"},
		{"id": json.Number("7"), "username": "sam", "password": "hunter2"},
	}
	if err := adapter.Write(ctx, catalog.CollectionUsers, users, false); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	return catalog.NewRepository(adapter, newTestLogger())
}

func TestFindPhotoByIDNormalizesIDs(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	// Stored as the number 1, looked up as the string "1".
	photo, err := repo.FindPhotoByID(ctx, "1")
	if err != nil {
		t.Fatalf("FindPhotoByID returned error: %v", err)
	}
	if photo.Title != "Beach" {
		t.Fatalf("expected Beach, got %q", photo.Title)
	}
	if photo.ID != "1" {
		t.Fatalf("expected canonical id %q, got %q", "1", photo.ID)
	}
	if photo.Owner != "u1" {
		t.Fatalf("expected owner u1, got %q", photo.Owner)
	}
	if len(photo.Albums) != 1 || photo.Albums[0] != "10" {
		t.Fatalf("expected albums [10], got %v", photo.Albums)
	}
}

func TestFindPhotoByIDNotFound(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.FindPhotoByID(context.Background(), "999")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPhotosPreservesStorageOrder(t *testing.T) {
	repo := newRepository(t)

	photos, err := repo.ListPhotos(context.Background())
	if err != nil {
		t.Fatalf("ListPhotos returned error: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].Title != "Beach" || photos[1].Title != "Mountain" {
		t.Fatalf("unexpected order: %v", photos)
	}
}

func TestFindUserByUsername(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	user, err := repo.FindUserByUsername(ctx, "sam")
	if err != nil {
		t.Fatalf("FindUserByUsername returned error: %v", err)
	}
	if user.ID != "7" {
		t.Fatalf("expected canonical id 7, got %q", user.ID)
	}
	if user.Password != "hunter2" {
		t.Fatalf("unexpected password %q", user.Password)
	}

	if _, err := repo.FindUserByUsername(ctx, "nobody"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePhotoFieldsBlankKeepsOldValue(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	ok, err := repo.UpdatePhotoFields(ctx, "1", "", "")
	if err != nil {
		t.Fatalf("UpdatePhotoFields returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected success for existing photo")
	}

	photo, err := repo.FindPhotoByID(ctx, "1")
	if err != nil {
		t.Fatalf("FindPhotoByID returned error: %v", err)
	}
	if photo.Title != "Beach" || photo.Description != "Sand and sea" {
		t.Fatalf("expected unchanged fields, got %q/%q", photo.Title, photo.Description)
	}
}

func TestUpdatePhotoFieldsTitleOnly(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	ok, err := repo.UpdatePhotoFields(ctx, "1", "New Title", "")
	if err != nil {
		t.Fatalf("UpdatePhotoFields returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected success for existing photo")
	}

	photo, err := repo.FindPhotoByID(ctx, "1")
	if err != nil {
		t.Fatalf("FindPhotoByID returned error: %v", err)
	}
	if photo.Title != "New Title" {
		t.Fatalf("expected new title, got %q", photo.Title)
	}
	if photo.Description != "Sand and sea" {
		t.Fatalf("expected unchanged description, got %q", photo.Description)
	}
}

func TestUpdatePhotoFieldsMissingPhoto(t *testing.T) {
	repo := newRepository(t)

	ok, err := repo.UpdatePhotoFields(context.Background(), "999", "x", "y")
	if err != nil {
		t.Fatalf("UpdatePhotoFields returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for missing photo")
	}
}

func TestAppendTagDoesNotDeduplicate(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := repo.AppendTag(ctx, "1", "vacation")
		if err != nil {
			t.Fatalf("AppendTag returned error: %v", err)
		}
		if !ok {
			t.Fatalf("expected success for existing photo")
		}
	}

	photo, err := repo.FindPhotoByID(ctx, "1")
	if err != nil {
		t.Fatalf("FindPhotoByID returned error: %v", err)
	}
	want := []string{"a", "vacation", "vacation"}
	if len(photo.Tags) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, photo.Tags)
	}
	for i := range want {
		if photo.Tags[i] != want[i] {
			t.Fatalf("expected tags %v, got %v", want, photo.Tags)
		}
	}
}

func TestAppendTagMissingPhoto(t *testing.T) {
	repo := newRepository(t)

	ok, err := repo.AppendTag(context.Background(), "999", "vacation")
	if err != nil {
		t.Fatalf("AppendTag returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for missing photo")
	}
}
