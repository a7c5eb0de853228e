package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/gateway/internal/middleware"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	OrderURL   string

	Logger     *slog.Logger
	CSRFConfig middleware.CSRFConfig
}

// Register mounts the public API under /api/v1. Authentication and role
// checks happen in the services themselves.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common(d.Logger) {
		e.Use(m)
	}

	catalogProxy, err := newProxy(d.CatalogURL, "/api/v1")
	if err != nil {
		return err
	}
	orderProxy, err := newProxy(d.OrderURL, "/api/v1")
	if err != nil {
		return err
	}

	api := e.Group("/api/v1", middleware.CSRF(d.CSRFConfig))

	if d.AuthURL != "" {
		authProxy, err := newProxy(d.AuthURL, "/api/v1")
		if err != nil {
			return err
		}
		api.Any("/auth/*", authProxy)
	}

	api.Any("/catalog/*", catalogProxy)
	api.Any("/order", orderProxy)
	api.Any("/order/*", orderProxy)
	api.Any("/billing", orderProxy)

	return nil
}
