package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moneer95/photocat/internal/catalog"
)

type AuthHandler struct {
	logger     *slog.Logger
	service    catalog.Service
	cookieName string
}

func NewAuthHandler(logger *slog.Logger, service catalog.Service, cookieName string) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		service:    service,
		cookieName: cookieName,
	}
}

// Login checks the submitted credentials and, on success, stores the user id
// in the session cookie. The caller holds that id for the duration of its
// session; no token is issued.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		respondError(c, http.StatusBadRequest, "BAD_REQUEST", "username and password are required")
		return
	}

	userID, err := h.service.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCredentials) {
			h.logger.Warn("invalid login attempt", "username", username, "ip", c.ClientIP())
		} else {
			h.logger.Error("login failed", "username", username, "error", err)
		}
		respondCatalogError(c, err)
		return
	}

	maxAge := int((14 * 24 * time.Hour).Seconds())
	secure := c.Request.TLS != nil
	c.SetCookie(h.cookieName, userID.String(), maxAge, "/", "", secure, true)

	h.logger.Info("login successful", "username", username, "ip", c.ClientIP())
	respondOK(c, gin.H{"userId": userID})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetCookie(h.cookieName, "", -1, "/", "", secure, true)
	respondOK(c, gin.H{"loggedOut": true})
}
