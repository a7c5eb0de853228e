package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"
)

type AddItemRequest struct {
	ItemID uuid.UUID `json:"item_id"`
}

type BillingRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

type ItemResponse struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	ImgURL string          `json:"img_url"`
	Size   string          `json:"size,omitempty"`
	Sex    string          `json:"sex,omitempty"`
	Brand  string          `json:"brand,omitempty"`
	Type   string          `json:"type,omitempty"`
	Color  string          `json:"color,omitempty"`
}

type OrderResponse struct {
	OrderNum           uint64             `json:"order_num"`
	Status             models.OrderStatus `json:"status"`
	OrderDate          time.Time          `json:"order_date"`
	TotalPrice         decimal.Decimal    `json:"total_price"`
	ShippingProviderID *uint              `json:"shipping_provider_id,omitempty"`
	SubmittedAt        *time.Time         `json:"submitted_at,omitempty"`
	Items              []ItemResponse     `json:"items,omitempty"`
}

type HistoryResponse struct {
	Data []OrderResponse `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type BillingResponse struct {
	CardLast4  string    `json:"card_last4"`
	ExpiryDate string    `json:"expiry_date"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewOrderResponse(o *models.Order, items []models.Item) OrderResponse {
	resp := OrderResponse{
		OrderNum:           o.OrderNum,
		Status:             o.Status,
		OrderDate:          o.OrderDate,
		TotalPrice:         o.TotalPrice.Round(2),
		ShippingProviderID: o.ShippingProviderID,
		SubmittedAt:        o.SubmittedAt,
	}
	if items != nil {
		resp.Items = make([]ItemResponse, 0, len(items))
		for _, it := range items {
			resp.Items = append(resp.Items, ItemResponse{
				ID:     it.ID,
				Name:   it.Name,
				Price:  it.Price,
				ImgURL: it.ImgURL,
				Size:   it.Size,
				Sex:    it.Sex,
				Brand:  it.Brand,
				Type:   it.Type,
				Color:  it.Color,
			})
		}
	}
	return resp
}

func NewBillingResponse(b *models.Billing) BillingResponse {
	return BillingResponse{
		CardLast4:  b.CardLast4,
		ExpiryDate: b.ExpiryDate,
		UpdatedAt:  b.UpdatedAt,
	}
}
