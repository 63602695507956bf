// Package catalog holds the photo catalog's domain types, the per-entity
// record repository, and the access and aggregation service that enforces
// ownership on every photo-touching operation.
package catalog

import (
	"encoding/json"
	"fmt"
)

// ID is a record identifier in canonical string form. Seed data stores ids
// as JSON numbers or strings interchangeably; decoding normalizes both to
// the same string so ids compare with plain ==, never numeric coercion.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Photo is a single catalog entry. Albums may reference albums that no
// longer exist; unresolved ids are dropped at display time, not errored.
type Photo struct {
	ID          ID       `json:"id"`
	Filename    string   `json:"filename"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Owner       ID       `json:"owner"`
	Albums      []ID     `json:"albums"`
	Tags        []string `json:"tags"`
}

// Album is a named grouping of photos. Read-only from the catalog's
// perspective; names are compared case-insensitively.
type Album struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// User is a login principal. Passwords are stored and compared in the clear;
// hashing is out of scope for this catalog.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// FormattedPhoto is the derived, display-oriented projection of a Photo:
// resolved album names, a rendered date, and nothing else. Raw fields such
// as owner and description are deliberately dropped.
type FormattedPhoto struct {
	ID            ID       `json:"id"`
	Filename      string   `json:"filename"`
	Title         string   `json:"title"`
	FormattedDate string   `json:"formattedDate"`
	AlbumNames    []string `json:"albumNames"`
	Tags          []string `json:"tags"`
}
