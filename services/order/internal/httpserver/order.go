package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/pkg/logging"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"

	"github.com/Skotchmaster/clothing_shop/services/order/internal/service"
	"github.com/Skotchmaster/clothing_shop/services/order/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ViewOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.view_order")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("view_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.ViewOrder(ctx, custID)
	if err != nil {
		return fail(l, "view_order_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewOrderResponse(&view.Order, view.Items))
}

func (h *OrderHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.add_item")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("add_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil || req.ItemID == uuid.Nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "item_id required")
	}

	order, err := h.Svc.AddItem(ctx, custID, req.ItemID)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	l.Info("add_item_success", "order_num", order.OrderNum, "item_id", req.ItemID)
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order, nil))
}

func (h *OrderHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.remove_item")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("remove_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		l.Warn("remove_item_error", "status", 400, "reason", "item_id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "item_id is not a uuid")
	}

	order, err := h.Svc.RemoveItem(ctx, custID, itemID)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	l.Info("remove_item_success", "order_num", order.OrderNum, "item_id", itemID)
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order, nil))
}

func (h *OrderHTTP) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.submit_order")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("submit_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	receipt, err := h.Svc.SubmitOrder(ctx, custID)
	if err != nil {
		return fail(l, "submit_order_error", err)
	}

	l.Info("submit_order_success", "order_num", receipt.Order.OrderNum)
	return c.JSON(http.StatusOK, transport.NewOrderResponse(&receipt.Order, receipt.Items))
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	custID, err := customerID(c)
	if err != nil {
		l.Warn("history_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	meta, orders, err := h.Svc.History(ctx, custID, page, size)
	if err != nil {
		return fail(l, "history_error", err)
	}

	resp := transport.HistoryResponse{Data: make([]transport.OrderResponse, 0, len(orders)), Meta: meta}
	for i := range orders {
		resp.Data = append(resp.Data, transport.NewOrderResponse(&orders[i], nil))
	}
	return c.JSON(http.StatusOK, resp)
}
