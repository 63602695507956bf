package storage

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
)

// ErrNotFound indicates that a single-record operation matched no record in
// the underlying storage.
var ErrNotFound = errors.New("storage: not found")

// ErrUnavailable indicates that the backing store could not be read or
// written (missing file, unparsable content, unreachable database). It is
// always propagated, never swallowed.
var ErrUnavailable = errors.New("storage: unavailable")

// Record is a single document in a collection. Numeric values decoded from
// JSON are carried as json.Number so that ids survive round-trips without
// losing their original representation.
type Record = map[string]any

// Filter selects records by field equality. Scalar values are compared by
// their canonical string form (see CanonicalID), so a filter value of 1 and
// a stored value of "1" match.
type Filter = map[string]any

// Patch is a field-set applied to matching records. Only the named fields
// are replaced; everything else in the record is preserved.
type Patch = map[string]any

// Adapter exposes uniform read/write/update/delete over named collections.
// Single selects one-record semantics: Read returns exactly one record or
// ErrNotFound, Write inserts exactly one record, Update and Delete act on
// the first match only. Implementations are safe for concurrent use.
type Adapter interface {
	Read(ctx context.Context, collection string, filter Filter, single bool) ([]Record, error)
	Write(ctx context.Context, collection string, records []Record, single bool) error
	Update(ctx context.Context, collection string, criteria Filter, patch Patch, single bool) (matched int64, err error)
	Delete(ctx context.Context, collection string, filter Filter, single bool) (deleted int64, err error)
	Ping(ctx context.Context) error
	Close() error
}

// ReadOne reads the single record matching filter, or ErrNotFound.
func ReadOne(ctx context.Context, a Adapter, collection string, filter Filter) (Record, error) {
	records, err := a.Read(ctx, collection, filter, true)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// CanonicalID normalizes an id-like value to its canonical string form.
// Stored ids may be JSON numbers or strings depending on how the collection
// was seeded; comparing canonical strings makes 1 and "1" the same id.
func CanonicalID(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Matches reports whether every filter field equals the corresponding record
// field. Scalars compare by canonical string; composite values fall back to
// deep equality.
func Matches(record Record, filter Filter) bool {
	for key, want := range filter {
		got, ok := record[key]
		if !ok {
			return false
		}
		if isScalar(want) && isScalar(got) {
			if CanonicalID(got) != CanonicalID(want) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, json.Number, float64, int, int64, bool:
		return true
	default:
		return false
	}
}
