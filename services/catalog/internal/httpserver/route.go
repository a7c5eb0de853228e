package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/pkg/authclient"
	"github.com/Skotchmaster/clothing_shop/pkg/metrics"
	middleware "github.com/Skotchmaster/clothing_shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	AuthClient     *authclient.Client
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	e.GET("/catalog/types", d.CatalogHandler.Types)

	items := e.Group("/catalog/items")
	items.GET("/search", d.CatalogHandler.SearchItems)
	items.GET("", d.CatalogHandler.ListItems)
	items.GET("/:id", d.CatalogHandler.GetItem)

	owner := items.Group("", authMW.RequireOwner)
	owner.POST("", d.CatalogHandler.CreateItem)
	owner.PATCH("/:id", d.CatalogHandler.PatchItem)
	owner.DELETE("/:id", d.CatalogHandler.DeleteItem)
}
