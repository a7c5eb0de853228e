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
	OrderHandler   *OrderHTTP
	BillingHandler *BillingHTTP
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

	order := e.Group("/order", authMW.RequireCustomer)
	order.GET("", d.OrderHandler.ViewOrder)
	order.POST("/items", d.OrderHandler.AddItem)
	order.DELETE("/items/:item_id", d.OrderHandler.RemoveItem)
	order.POST("/submit", d.OrderHandler.SubmitOrder)
	order.GET("/history", d.OrderHandler.History)

	billing := e.Group("/billing", authMW.RequireCustomer)
	billing.GET("", d.BillingHandler.GetBilling)
	billing.PUT("", d.BillingHandler.PutBilling)
}
