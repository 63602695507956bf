package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/http/middleware"
	"github.com/moneer95/photocat/internal/storage"
)

type PhotoHandler struct {
	logger  *slog.Logger
	service catalog.Service
}

func NewPhotoHandler(logger *slog.Logger, service catalog.Service) *PhotoHandler {
	return &PhotoHandler{
		logger:  logger,
		service: service,
	}
}

// List responds with every formatted photo the session's user owns.
func (h *PhotoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := catalog.ID(middleware.UserID(c))

	photos, err := h.service.PhotosForUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list photos", "user", userID, "error", err)
		respondCatalogError(c, err)
		return
	}

	respondOK(c, photos)
}

// Album responds with the user's formatted photos in the named album.
// Matching is case-insensitive.
func (h *PhotoHandler) Album(c *gin.Context) {
	ctx := c.Request.Context()
	userID := catalog.ID(middleware.UserID(c))

	albumName := strings.TrimSpace(c.Param("name"))
	if albumName == "" {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "album not found")
		return
	}

	photos, err := h.service.AlbumPhotoList(ctx, userID, albumName)
	if err != nil {
		h.logger.Error("failed to list album photos", "user", userID, "album", albumName, "error", err)
		respondCatalogError(c, err)
		return
	}

	respondOK(c, photos)
}

// Details responds with a single formatted photo, or 404/403 per ownership.
func (h *PhotoHandler) Details(c *gin.Context) {
	ctx := c.Request.Context()
	userID := catalog.ID(middleware.UserID(c))
	photoID := catalog.ID(strings.TrimSpace(c.Param("id")))

	photo, err := h.service.GetFormattedPhoto(ctx, userID, photoID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) && !errors.Is(err, catalog.ErrForbidden) {
			h.logger.Error("failed to load photo", "user", userID, "id", photoID, "error", err)
		}
		respondCatalogError(c, err)
		return
	}

	respondOK(c, photo)
}

// Edit updates a photo's title and description from form fields. Blank
// values keep the stored ones.
func (h *PhotoHandler) Edit(c *gin.Context) {
	ctx := c.Request.Context()
	userID := catalog.ID(middleware.UserID(c))

	photoID := catalog.ID(strings.TrimSpace(c.PostForm("id")))
	if photoID == "" {
		respondError(c, http.StatusBadRequest, "BAD_REQUEST", "id is required")
		return
	}
	title := c.PostForm("title")
	description := c.PostForm("description")

	updated, err := h.service.UpdatePhoto(ctx, userID, photoID, title, description)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) && !errors.Is(err, catalog.ErrForbidden) {
			h.logger.Error("failed to update photo", "user", userID, "id", photoID, "error", err)
		}
		respondCatalogError(c, err)
		return
	}

	if updated {
		h.logger.Info("photo updated", "user", userID, "id", photoID)
	}
	respondOK(c, gin.H{"updated": updated})
}

// AddTag appends a tag to a photo. Tags are not deduplicated.
func (h *PhotoHandler) AddTag(c *gin.Context) {
	ctx := c.Request.Context()
	userID := catalog.ID(middleware.UserID(c))
	photoID := catalog.ID(strings.TrimSpace(c.Param("id")))

	tag := c.PostForm("tag")

	added, err := h.service.AddTag(ctx, userID, photoID, tag)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) && !errors.Is(err, catalog.ErrForbidden) {
			h.logger.Error("failed to tag photo", "user", userID, "id", photoID, "error", err)
		}
		respondCatalogError(c, err)
		return
	}

	if added {
		h.logger.Info("photo tagged", "user", userID, "id", photoID, "tag", tag)
	}
	respondOK(c, gin.H{"added": added})
}

// HealthHandler reports whether the storage backend is reachable.
type HealthHandler struct {
	store storage.Adapter
}

func NewHealthHandler(store storage.Adapter) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		respondCatalogError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "ok"})
}
