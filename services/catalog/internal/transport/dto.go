package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"
)

type CreateItemRequest struct {
	Name        string          `json:"name"`
	ImgURL      string          `json:"img_url"`
	Price       decimal.Decimal `json:"price"`
	Sex         string          `json:"sex"`
	Size        string          `json:"size"`
	Brand       string          `json:"brand"`
	Type        string          `json:"type"`
	Weight      decimal.Decimal `json:"weight"`
	Color       string          `json:"color"`
	InventoryID *uint           `json:"inventory_id"`
}

type PatchItemRequest struct {
	Name   *string          `json:"name"`
	ImgURL *string          `json:"img_url"`
	Price  *decimal.Decimal `json:"price"`
	Sex    *string          `json:"sex"`
	Size   *string          `json:"size"`
	Brand  *string          `json:"brand"`
	Type   *string          `json:"type"`
	Weight *decimal.Decimal `json:"weight"`
	Color  *string          `json:"color"`
}

type ItemsResponse struct {
	Data []models.Item   `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type ItemChangeResponse struct {
	Item           *models.Item `json:"item,omitempty"`
	RepricedOrders []uint64     `json:"repriced_orders"`
}
