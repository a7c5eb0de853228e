package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner    Role = "Owner"
	RoleCustomer Role = "Customer"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusSubmitted OrderStatus = "submitted"
)

type Account struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	Username           string    `gorm:"not null"                    json:"username"`
	Email              string    `gorm:"uniqueIndex;not null"        json:"email"`
	Phone              string    `                                   json:"phone,omitempty"`
	Role               Role      `gorm:"type:varchar(16);not null"   json:"role"`
	ShippingProviderID *uint     `                                   json:"shipping_provider_id,omitempty"`
	CreatedAt          time.Time `                                   json:"created_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type ShippingProvider struct {
	ID     uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Travel string          `gorm:"not null"                    json:"travel"`
	Weight decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"weight"`
}

type Inventory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Stock       int       `gorm:"not null"                 json:"stock"`
	LastUpdated time.Time `gorm:"autoUpdateTime"           json:"last_updated"`
}

// Warehouse is a storage site of an owner, stocked from one inventory.
type Warehouse struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string     `gorm:"not null"                      json:"name"`
	Location    string     `gorm:"not null"                      json:"location"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"      json:"owner_id"`
	InventoryID *uint      `                                     json:"inventory_id,omitempty"`
	Inventory   *Inventory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                           json:"id"`
	Name        string          `gorm:"uniqueIndex;not null"                           json:"name"`
	ImgURL      string          `gorm:"not null;default:''"                            json:"img_url"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;check:price >= 0"  json:"price"`
	Sex         string          `                                                      json:"sex,omitempty"`
	Size        string          `                                                      json:"size,omitempty"`
	Brand       string          `gorm:"index"                                          json:"brand,omitempty"`
	Type        string          `gorm:"index"                                          json:"type,omitempty"`
	Weight      decimal.Decimal `gorm:"type:numeric(10,2)"                             json:"weight"`
	Color       string          `                                                      json:"color,omitempty"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null"                       json:"owner_id"`
	InventoryID *uint           `                                                      json:"inventory_id,omitempty"`
	Inventory   *Inventory      `gorm:"constraint:OnDelete:SET NULL"                   json:"-"`
	CreatedAt   time.Time       `                                                      json:"created_at"`
	UpdatedAt   time.Time       `                                                      json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Order is a customer's basket while open and a receipt once submitted.
// At most one open order exists per customer.
type Order struct {
	OrderNum           uint64          `gorm:"primaryKey;autoIncrement"                                                   json:"order_num"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_open_customer,where:status = 'open'" json:"customer_id"`
	Status             OrderStatus     `gorm:"type:varchar(16);not null;index"                                            json:"status"`
	OrderDate          time.Time       `gorm:"not null"                                                                   json:"order_date"`
	TotalPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null"                                                json:"total_price"`
	ShippingProviderID *uint           `                                                                                  json:"shipping_provider_id,omitempty"`
	SubmittedAt        *time.Time      `                                                                                  json:"submitted_at,omitempty"`
	LineItems          []LineItem      `gorm:"foreignKey:OrderNum;references:OrderNum;constraint:OnDelete:CASCADE"        json:"-"`
}

// LineItem places one unit of an item in an order.
type LineItem struct {
	ItemID   uuid.UUID `gorm:"type:uuid;primaryKey"                                        json:"item_id"`
	OrderNum uint64    `gorm:"primaryKey;autoIncrement:false;index"                        json:"order_num"`
	AddedAt  time.Time `gorm:"not null"                                                    json:"added_at"`
	Item     *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"               json:"-"`
}

func (LineItem) TableName() string {
	return "line_items"
}

type Billing struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"customer_id"`
	CardHash   string    `gorm:"not null"                    json:"-"`
	CardLast4  string    `gorm:"type:varchar(4);not null"    json:"card_last4"`
	ExpiryDate string    `gorm:"type:varchar(5);not null"    json:"expiry_date"`
	UpdatedAt  time.Time `                                   json:"updated_at"`
}
