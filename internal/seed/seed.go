// Package seed populates the catalog's collections: photo records from a
// directory of images, and fixture JSON for albums and users. The core never
// creates records itself, so this is the ingestion path.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/storage"
)

const thumbnailSize = 480

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Importer writes seed records through the storage adapter.
type Importer struct {
	store  storage.Adapter
	logger *slog.Logger
}

func NewImporter(store storage.Adapter, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportDir scans dir for images and inserts one photo record per image,
// owned by owner. The capture date comes from EXIF when present, otherwise
// the file's modification time. A thumbnail is written next to the originals
// under dir/thumbs. Returns the number of records inserted.
func (i *Importer) ImportDir(ctx context.Context, dir string, owner catalog.ID) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("seed: read dir: %w", err)
	}

	thumbsDir := filepath.Join(dir, "thumbs")
	if err := os.MkdirAll(thumbsDir, 0o755); err != nil {
		return 0, fmt.Errorf("seed: ensure thumbs dir: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		takenAt := i.captureDate(path)

		if err := i.writeThumbnail(path, filepath.Join(thumbsDir, entry.Name())); err != nil {
			i.logger.Warn("thumbnail failed, importing anyway", "file", entry.Name(), "error", err)
		}

		record := storage.Record{
			"id":          uuid.NewString(),
			"filename":    entry.Name(),
			"title":       titleFromFilename(entry.Name()),
			"description": "",
			"date":        takenAt.UTC().Format(time.RFC3339),
			"owner":       owner.String(),
			"albums":      []any{},
			"tags":        []any{},
		}

		if err := i.store.Write(ctx, catalog.CollectionPhotos, []storage.Record{record}, true); err != nil {
			return imported, err
		}

		i.logger.Info("photo imported", "file", entry.Name(), "owner", owner)
		imported++
	}

	return imported, nil
}

// LoadFixtures inserts the records from photos.json, albums.json and
// users.json found in dir. Missing files are skipped.
func (i *Importer) LoadFixtures(ctx context.Context, dir string) error {
	for _, collection := range []string{
		catalog.CollectionPhotos,
		catalog.CollectionAlbums,
		catalog.CollectionUsers,
	} {
		path := filepath.Join(dir, collection+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("seed: read fixture %s: %w", collection, err)
		}

		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		var records []storage.Record
		if err := decoder.Decode(&records); err != nil {
			return fmt.Errorf("seed: parse fixture %s: %w", collection, err)
		}
		if len(records) == 0 {
			continue
		}

		if err := i.store.Write(ctx, collection, records, false); err != nil {
			return err
		}

		i.logger.Info("fixture loaded", "collection", collection, "records", len(records))
	}

	return nil
}

// captureDate reads EXIF DateTimeOriginal, falling back to the file's
// modification time when the image carries no usable EXIF block.
func (i *Importer) captureDate(path string) time.Time {
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if x, err := exif.Decode(f); err == nil {
			if t, err := x.DateTime(); err == nil {
				return t
			}
		}
	}

	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}

func (i *Importer) writeThumbnail(srcPath, dstPath string) error {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	return imaging.Save(thumb, dstPath)
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
