package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/pkg/logging"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"

	"github.com/Skotchmaster/clothing_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/clothing_shop/services/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (int, int) {
	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)
	return page, size
}

func (h *CatalogHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_item")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_item_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	item, err := h.Svc.GetItem(ctx, id)
	if err != nil {
		return fail(l, "get_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_items")

	page, size := pageParams(c)
	meta, items, err := h.Svc.ListItems(ctx, c.QueryParam("type"), page, size)
	if err != nil {
		return fail(l, "list_items_error", err)
	}

	l.Info("list_items_success", "total", meta.Total)
	return c.JSON(http.StatusOK, transport.ItemsResponse{Data: items, Meta: meta})
}

func (h *CatalogHTTP) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_items")

	page, size := pageParams(c)
	meta, items, err := h.Svc.SearchItems(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_items_error", err)
	}

	l.Info("search_items_success", "total", meta.Total)
	return c.JSON(http.StatusOK, transport.ItemsResponse{Data: items, Meta: meta})
}

func (h *CatalogHTTP) Types(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.types")

	types, err := h.Svc.Types(ctx)
	if err != nil {
		return fail(l, "types_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"types": types})
}

func (h *CatalogHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_item")

	owner, err := ownerID(c)
	if err != nil {
		l.Warn("create_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateItem(ctx, owner, req)
	if err != nil {
		return fail(l, "create_item_error", err)
	}

	l.Info("create_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) PatchItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_item")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_item_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.PatchItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	change, err := h.Svc.PatchItem(ctx, id, req)
	if err != nil {
		return fail(l, "patch_item_error", err)
	}

	l.Info("patch_item_success", "item_id", id, "repriced_orders", len(change.RepricedOrders))
	return c.JSON(http.StatusOK, transport.ItemChangeResponse{Item: change.Item, RepricedOrders: change.RepricedOrders})
}

func (h *CatalogHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_item")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_item_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	change, err := h.Svc.DeleteItem(ctx, id)
	if err != nil {
		return fail(l, "delete_item_error", err)
	}

	l.Info("delete_item_success", "item_id", id, "repriced_orders", len(change.RepricedOrders))
	return c.JSON(http.StatusOK, transport.ItemChangeResponse{RepricedOrders: change.RepricedOrders})
}
