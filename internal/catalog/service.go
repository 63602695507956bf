package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Service is the access and aggregation layer over the repository. Every
// photo-touching operation looks the photo up and asserts ownership before
// doing anything else; batch operations drop individual photos that fail
// that check instead of failing the whole call.
type Service interface {
	// Authenticate returns the user's id when the username exists and the
	// stored password matches exactly, otherwise ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (ID, error)

	GetFormattedPhoto(ctx context.Context, userID, photoID ID) (FormattedPhoto, error)
	PhotosForUser(ctx context.Context, userID ID) ([]FormattedPhoto, error)
	AlbumPhotoList(ctx context.Context, userID ID, albumName string) ([]FormattedPhoto, error)
	UpdatePhoto(ctx context.Context, userID, photoID ID, title, description string) (bool, error)
	AddTag(ctx context.Context, userID, photoID ID, tag string) (bool, error)

	// ResolveAlbumNames maps album ids to lower-cased album names in album
	// storage order. Unresolved ids are dropped; no matches yield an empty
	// slice.
	ResolveAlbumNames(ctx context.Context, albumIDs []ID) ([]string, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service over the given repository.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Authenticate(ctx context.Context, username, password string) (ID, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("login attempt for unknown user", "username", username)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if user.Password != password {
		s.logger.Warn("login attempt with wrong password", "username", username)
		return "", ErrInvalidCredentials
	}

	return user.ID, nil
}

// ensureOwner fails with ErrForbidden unless the photo's owner id equals
// userID. Both sides are already canonical strings, so == is the whole
// comparison.
func (s *service) ensureOwner(photo Photo, userID ID) error {
	if photo.Owner != userID {
		return ErrForbidden
	}
	return nil
}

func (s *service) GetFormattedPhoto(ctx context.Context, userID, photoID ID) (FormattedPhoto, error) {
	photo, err := s.repo.FindPhotoByID(ctx, photoID)
	if err != nil {
		return FormattedPhoto{}, err
	}
	if err := s.ensureOwner(photo, userID); err != nil {
		return FormattedPhoto{}, err
	}

	albumNames, err := s.ResolveAlbumNames(ctx, photo.Albums)
	if err != nil {
		return FormattedPhoto{}, err
	}

	return FormattedPhoto{
		ID:            photo.ID,
		Filename:      photo.Filename,
		Title:         photo.Title,
		FormattedDate: formatDate(photo.Date),
		AlbumNames:    albumNames,
		Tags:          photo.Tags,
	}, nil
}

func (s *service) PhotosForUser(ctx context.Context, userID ID) ([]FormattedPhoto, error) {
	photos, err := s.repo.ListPhotos(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]FormattedPhoto, 0, len(photos))
	for _, photo := range photos {
		formatted, err := s.GetFormattedPhoto(ctx, userID, photo.ID)
		if err != nil {
			if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
				s.logger.Debug("skipping photo in aggregation", "id", photo.ID, "reason", err)
				continue
			}
			return nil, err
		}
		result = append(result, formatted)
	}
	return result, nil
}

func (s *service) AlbumPhotoList(ctx context.Context, userID ID, albumName string) ([]FormattedPhoto, error) {
	photos, err := s.PhotosForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(albumName))

	result := make([]FormattedPhoto, 0, len(photos))
	for _, photo := range photos {
		if slices.Contains(photo.AlbumNames, needle) {
			result = append(result, photo)
		}
	}
	return result, nil
}

func (s *service) UpdatePhoto(ctx context.Context, userID, photoID ID, title, description string) (bool, error) {
	photo, err := s.repo.FindPhotoByID(ctx, photoID)
	if err != nil {
		return false, err
	}
	if err := s.ensureOwner(photo, userID); err != nil {
		return false, err
	}

	return s.repo.UpdatePhotoFields(ctx, photoID, title, description)
}

func (s *service) AddTag(ctx context.Context, userID, photoID ID, tag string) (bool, error) {
	photo, err := s.repo.FindPhotoByID(ctx, photoID)
	if err != nil {
		return false, err
	}
	if err := s.ensureOwner(photo, userID); err != nil {
		return false, err
	}

	return s.repo.AppendTag(ctx, photoID, tag)
}

func (s *service) ResolveAlbumNames(ctx context.Context, albumIDs []ID) ([]string, error) {
	albums, err := s.repo.ListAlbums(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[ID]struct{}, len(albumIDs))
	for _, id := range albumIDs {
		wanted[id] = struct{}{}
	}

	names := make([]string, 0, len(albumIDs))
	for _, album := range albums {
		if _, ok := wanted[album.ID]; ok {
			names = append(names, strings.ToLower(album.Name))
		}
	}
	return names, nil
}

// dateLayouts are tried in order when parsing a photo's stored date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatDate renders an ISO-parseable timestamp as a long date, e.g.
// "January 5, 2024". A date that fails to parse is shown as stored.
func formatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return raw
}
