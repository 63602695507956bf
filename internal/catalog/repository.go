package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moneer95/photocat/internal/storage"
)

// Collection names used by the repository. Seed data and both storage
// backends share these.
const (
	CollectionPhotos = "photos"
	CollectionAlbums = "albums"
	CollectionUsers  = "users"
)

// Repository exposes collection-specific accessors over the storage adapter.
// Absence is reported as ErrNotFound (or false for mutations), never a
// panic; storage failures pass through unchanged.
type Repository interface {
	FindPhotoByID(ctx context.Context, id ID) (Photo, error)
	ListPhotos(ctx context.Context) ([]Photo, error)
	ListAlbums(ctx context.Context) ([]Album, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)

	// UpdatePhotoFields replaces title and description, except that a blank
	// value keeps the existing one. Intentional, if surprising: there is no
	// way to clear a field through this call. Pending product confirmation.
	UpdatePhotoFields(ctx context.Context, id ID, title, description string) (bool, error)

	// AppendTag appends unconditionally: no dedup, no validation of the tag
	// text. Returns false when the photo does not exist.
	AppendTag(ctx context.Context, id ID, tag string) (bool, error)
}

type repository struct {
	store  storage.Adapter
	logger *slog.Logger
}

// NewRepository creates a Repository backed by the given storage adapter.
func NewRepository(store storage.Adapter, logger *slog.Logger) Repository {
	return &repository{store: store, logger: logger}
}

func (r *repository) FindPhotoByID(ctx context.Context, id ID) (Photo, error) {
	record, err := storage.ReadOne(ctx, r.store, CollectionPhotos, storage.Filter{"id": id.String()})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Debug("no photo found with this id", "id", id)
			return Photo{}, ErrNotFound
		}
		return Photo{}, err
	}

	var photo Photo
	if err := decodeRecord(record, &photo); err != nil {
		return Photo{}, fmt.Errorf("catalog: decode photo: %w", err)
	}
	return photo, nil
}

func (r *repository) ListPhotos(ctx context.Context) ([]Photo, error) {
	records, err := r.store.Read(ctx, CollectionPhotos, nil, false)
	if err != nil {
		return nil, err
	}

	photos := make([]Photo, 0, len(records))
	for _, record := range records {
		var photo Photo
		if err := decodeRecord(record, &photo); err != nil {
			return nil, fmt.Errorf("catalog: decode photo: %w", err)
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func (r *repository) ListAlbums(ctx context.Context) ([]Album, error) {
	records, err := r.store.Read(ctx, CollectionAlbums, nil, false)
	if err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(records))
	for _, record := range records {
		var album Album
		if err := decodeRecord(record, &album); err != nil {
			return nil, fmt.Errorf("catalog: decode album: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, nil
}

func (r *repository) FindUserByUsername(ctx context.Context, username string) (User, error) {
	record, err := storage.ReadOne(ctx, r.store, CollectionUsers, storage.Filter{"username": username})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	var user User
	if err := decodeRecord(record, &user); err != nil {
		return User{}, fmt.Errorf("catalog: decode user: %w", err)
	}
	return user, nil
}

func (r *repository) UpdatePhotoFields(ctx context.Context, id ID, title, description string) (bool, error) {
	if _, err := r.FindPhotoByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	patch := storage.Patch{}
	if strings.TrimSpace(title) != "" {
		patch["title"] = title
	}
	if strings.TrimSpace(description) != "" {
		patch["description"] = description
	}
	if len(patch) == 0 {
		// Both inputs blank: the photo exists and keeps its current values.
		return true, nil
	}

	matched, err := r.store.Update(ctx, CollectionPhotos, storage.Filter{"id": id.String()}, patch, true)
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (r *repository) AppendTag(ctx context.Context, id ID, tag string) (bool, error) {
	photo, err := r.FindPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	tags := append(append([]string{}, photo.Tags...), tag)

	matched, err := r.store.Update(ctx, CollectionPhotos, storage.Filter{"id": id.String()}, storage.Patch{"tags": tags}, true)
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

// decodeRecord converts an adapter record into a typed entity by round-trip
// through JSON, which is also where id normalization happens.
func decodeRecord(record storage.Record, v any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
