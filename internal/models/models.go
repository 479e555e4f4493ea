package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
)

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	Name      string          `gorm:"not null"                    json:"name"`
	Category  string          `gorm:"not null;index"              json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL  *string         `                                   json:"image_url"`
	IsActive  bool            `gorm:"not null;index"              json:"is_active"`
	CreatedAt time.Time       `gorm:"index"                       json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	CustomerName string          `gorm:"not null"                    json:"customer_name"`
	Phone        string          `gorm:"not null"                    json:"phone"`
	DeliveryType string          `gorm:"not null"                    json:"delivery_type"`
	Address      string          `                                   json:"address"`
	Note         string          `                                   json:"note"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"delivery_fee"`
	Total        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status       OrderStatus     `gorm:"not null;index"              json:"status"`
	CreatedAt    time.Time       `gorm:"index"                       json:"created_at"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem keeps name and price as they were when the order was taken, so
// later catalog edits do not rewrite history.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid"                   json:"product_id,omitempty"`
	NameSnapshot  string          `gorm:"not null"                    json:"name_snapshot"`
	PriceSnapshot decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_snapshot"`
	Quantity      int             `gorm:"not null"                    json:"quantity"`
	Subtotal      decimal.Decimal `gorm:"-"                           json:"subtotal"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) AfterFind(tx *gorm.DB) error {
	i.Subtotal = i.LineSubtotal()
	return nil
}

func (i OrderItem) LineSubtotal() decimal.Decimal {
	return i.PriceSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type AdminSession struct {
	ID        uint       `gorm:"primaryKey"             json:"id"`
	JTI       string     `gorm:"uniqueIndex;not null"   json:"jti"`
	TokenHash string     `gorm:"not null"               json:"-"`
	Revoked   bool       `gorm:"not null"               json:"revoked"`
	CreatedAt time.Time  `                              json:"created_at"`
	RevokedAt *time.Time `                              json:"revoked_at,omitempty"`
}

func All() []any {
	return []any{&Product{}, &Order{}, &OrderItem{}, &AdminSession{}}
}
