package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/config"
	"github.com/moneer95/photocat/internal/http/handlers"
	"github.com/moneer95/photocat/internal/http/middleware"
	"github.com/moneer95/photocat/internal/storage"
)

func New(cfg *config.Config, logger *slog.Logger, store storage.Adapter, service catalog.Service) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	photoHandler := handlers.NewPhotoHandler(logger, service)
	authHandler := handlers.NewAuthHandler(logger, service, cfg.SessionCookie)
	healthHandler := handlers.NewHealthHandler(store)

	protected := r.Group("/")
	protected.Use(middleware.RequireUser(cfg.SessionCookie))
	protected.GET("/", photoHandler.List)
	protected.GET("/album/:name", photoHandler.Album)
	protected.GET("/photo-details/:id", photoHandler.Details)
	protected.POST("/photo-details/:id/tags", photoHandler.AddTag)
	protected.POST("/edit-photo", photoHandler.Edit)

	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/healthz", healthHandler.Check)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	return r
}
