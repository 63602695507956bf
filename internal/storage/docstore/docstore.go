// Package docstore implements the storage adapter over a SQLite-backed
// document collection: one row per document, the document body held as JSON.
// Filters translate to json_extract WHERE clauses and patches to json_set
// field updates, giving the adapter query/partial-update semantics instead of
// the file backend's whole-file rewrites.
package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/moneer95/photocat/internal/storage"
)

// Adapter is a document-collection implementation of storage.Adapter.
type Adapter struct {
	db *sql.DB
}

// Open initialises (or opens) the document store located at the provided
// path. The directory is created if it does not already exist. The returned
// Adapter is safe for concurrent use.
func Open(path string) (*Adapter, error) {
	if path == "" {
		return nil, fmt.Errorf("docstore: path must not be empty")
	}

	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("docstore: ensure directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("docstore: open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := bootstrap(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Adapter{db: db}, nil
}

func (a *Adapter) Read(ctx context.Context, collection string, filter storage.Filter, single bool) ([]storage.Record, error) {
	query := `SELECT doc FROM documents WHERE collection = ?`
	args := []any{collection}

	where, whereArgs := filterClauses(filter)
	if where != "" {
		query += " AND " + where
		args = append(args, whereArgs...)
	}
	query += " ORDER BY seq"
	if single {
		query += " LIMIT 1"
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", storage.ErrUnavailable, collection, err)
	}
	defer rows.Close()

	var result []storage.Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", storage.ErrUnavailable, collection, err)
		}
		record, err := decodeDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", storage.ErrUnavailable, collection, err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", storage.ErrUnavailable, collection, err)
	}

	if single && len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

func (a *Adapter) Write(ctx context.Context, collection string, records []storage.Record, single bool) error {
	if single && len(records) != 1 {
		return fmt.Errorf("docstore: single write expects exactly one record, got %d", len(records))
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", storage.ErrUnavailable, collection, err)
	}
	defer tx.Rollback()

	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("docstore: encode %s: %w", collection, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (collection, doc) VALUES (?, ?)`,
			collection, string(doc),
		); err != nil {
			return fmt.Errorf("%w: write %s: %w", storage.ErrUnavailable, collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: write %s: %w", storage.ErrUnavailable, collection, err)
	}
	return nil
}

func (a *Adapter) Update(ctx context.Context, collection string, criteria storage.Filter, patch storage.Patch, single bool) (int64, error) {
	if len(patch) == 0 {
		return 0, nil
	}

	setExpr, setArgs, err := patchExpression(patch)
	if err != nil {
		return 0, fmt.Errorf("docstore: encode patch for %s: %w", collection, err)
	}

	query := `UPDATE documents SET doc = ` + setExpr + ` WHERE collection = ?`
	args := append(setArgs, collection)

	where, whereArgs := filterClauses(criteria)
	if where != "" {
		query += " AND " + where
		args = append(args, whereArgs...)
	}
	if single {
		query += ` AND seq = (SELECT seq FROM documents WHERE collection = ?`
		args = append(args, collection)
		if where != "" {
			query += " AND " + where
			args = append(args, whereArgs...)
		}
		query += ` ORDER BY seq LIMIT 1)`
	}

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: update %s: %w", storage.ErrUnavailable, collection, err)
	}

	matched, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: update %s: %w", storage.ErrUnavailable, collection, err)
	}
	return matched, nil
}

func (a *Adapter) Delete(ctx context.Context, collection string, filter storage.Filter, single bool) (int64, error) {
	query := `DELETE FROM documents WHERE collection = ?`
	args := []any{collection}

	where, whereArgs := filterClauses(filter)
	if where != "" {
		query += " AND " + where
		args = append(args, whereArgs...)
	}
	if single {
		query += ` AND seq = (SELECT seq FROM documents WHERE collection = ?`
		args = append(args, collection)
		if where != "" {
			query += " AND " + where
			args = append(args, whereArgs...)
		}
		query += ` ORDER BY seq LIMIT 1)`
	}

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: delete %s: %w", storage.ErrUnavailable, collection, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: delete %s: %w", storage.ErrUnavailable, collection, err)
	}
	return deleted, nil
}

// Ping verifies the database connection is still alive.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// filterClauses renders a filter as json_extract comparisons. Both sides are
// cast to TEXT so a numeric stored id matches a string filter value and vice
// versa, mirroring the loose id equality of the file backend.
func filterClauses(filter storage.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		clauses = append(clauses, `CAST(json_extract(doc, '$.`+key+`') AS TEXT) = ?`)
		args = append(args, storage.CanonicalID(filter[key]))
	}
	return strings.Join(clauses, " AND "), args
}

// patchExpression renders a patch as a json_set call. Values are bound as
// JSON text and rehydrated with json(), so arrays and objects set whole
// fields rather than nested strings.
func patchExpression(patch storage.Patch) (string, []any, error) {
	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("json_set(doc")
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		value, err := json.Marshal(patch[key])
		if err != nil {
			return "", nil, err
		}
		b.WriteString(`, '$.` + key + `', json(?)`)
		args = append(args, string(value))
	}
	b.WriteString(")")
	return b.String(), args, nil
}

func decodeDoc(raw []byte) (storage.Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var record storage.Record
	if err := decoder.Decode(&record); err != nil {
		return nil, err
	}
	return record, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func configure(db *sql.DB) error {
	stmts := []string{
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA journal_mode = WAL;",
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("docstore: configure: %w", err)
		}
	}

	return nil
}

func bootstrap(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			doc TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("docstore: bootstrap: %w", err)
		}
	}

	return nil
}

var _ storage.Adapter = (*Adapter)(nil)
