package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/pkg/logging"

	"github.com/Skotchmaster/clothing_shop/services/order/internal/service"
	"github.com/Skotchmaster/clothing_shop/services/order/internal/transport"
)

type BillingHTTP struct {
	Svc *service.BillingService
}

func (h *BillingHTTP) GetBilling(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "billing.get")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("get_billing_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	b, err := h.Svc.Get(ctx, custID)
	if err != nil {
		return fail(l, "get_billing_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewBillingResponse(b))
}

func (h *BillingHTTP) PutBilling(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "billing.put")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("put_billing_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.BillingRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("put_billing_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	b, err := h.Svc.Update(ctx, custID, service.BillingInput{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
	})
	if err != nil {
		return fail(l, "put_billing_error", err)
	}

	l.Info("put_billing_success")
	return c.JSON(http.StatusOK, transport.NewBillingResponse(b))
}
