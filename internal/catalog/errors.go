package catalog

import "errors"

var (
	// ErrNotFound is returned when a photo or user does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrForbidden is returned when a photo is owned by a different user.
	ErrForbidden = errors.New("catalog: forbidden")
	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("catalog: invalid credentials")
)
