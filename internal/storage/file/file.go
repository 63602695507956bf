// Package file implements the storage adapter over flat JSON files, one file
// per collection. Every call loads the whole collection into memory and every
// mutating call rewrites the whole file. Two overlapping writers on the same
// collection outside this process are last-writer-wins; in-process writers are
// serialized per collection.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moneer95/photocat/internal/storage"
)

// Adapter is a flat-file JSON implementation of storage.Adapter. Each
// collection lives at <dir>/<collection>.json as a pretty-printed JSON array.
type Adapter struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open prepares a file adapter rooted at dir, creating the directory if it
// does not already exist.
func Open(dir string) (*Adapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("file: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: ensure directory: %w", err)
	}
	return &Adapter{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (a *Adapter) Read(ctx context.Context, collection string, filter storage.Filter, single bool) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := a.load(collection)
	if err != nil {
		return nil, err
	}

	var result []storage.Record
	for _, record := range records {
		if !storage.Matches(record, filter) {
			continue
		}
		result = append(result, record)
		if single {
			return result, nil
		}
	}

	if single {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

func (a *Adapter) Write(ctx context.Context, collection string, records []storage.Record, single bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if single && len(records) != 1 {
		return fmt.Errorf("file: single write expects exactly one record, got %d", len(records))
	}

	lock := a.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	// A collection that has never been written to starts out empty.
	existing, err := a.load(collection)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		existing = nil
	}

	return a.save(collection, append(existing, records...))
}

func (a *Adapter) Update(ctx context.Context, collection string, criteria storage.Filter, patch storage.Patch, single bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lock := a.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	records, err := a.load(collection)
	if err != nil {
		return 0, err
	}

	var matched int64
	for _, record := range records {
		if !storage.Matches(record, criteria) {
			continue
		}
		for key, value := range patch {
			record[key] = value
		}
		matched++
		if single {
			break
		}
	}

	if matched == 0 {
		return 0, nil
	}
	if err := a.save(collection, records); err != nil {
		return 0, err
	}
	return matched, nil
}

func (a *Adapter) Delete(ctx context.Context, collection string, filter storage.Filter, single bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lock := a.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	records, err := a.load(collection)
	if err != nil {
		return 0, err
	}

	var deleted int64
	kept := records[:0]
	for _, record := range records {
		if (!single || deleted == 0) && storage.Matches(record, filter) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}

	if deleted == 0 {
		return 0, nil
	}
	if err := a.save(collection, kept); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Ping verifies the data directory is still accessible.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(a.dir); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op; the adapter holds no long-lived handles.
func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) path(collection string) string {
	return filepath.Join(a.dir, collection+".json")
}

func (a *Adapter) collectionLock(collection string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[collection] = lock
	}
	return lock
}

func (a *Adapter) load(collection string) ([]storage.Record, error) {
	data, err := os.ReadFile(a.path(collection))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", storage.ErrUnavailable, collection, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var records []storage.Record
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", storage.ErrUnavailable, collection, err)
	}
	return records, nil
}

func (a *Adapter) save(collection string, records []storage.Record) error {
	if records == nil {
		records = []storage.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", storage.ErrUnavailable, collection, err)
	}
	if err := os.WriteFile(a.path(collection), data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", storage.ErrUnavailable, collection, err)
	}
	return nil
}

var _ storage.Adapter = (*Adapter)(nil)
