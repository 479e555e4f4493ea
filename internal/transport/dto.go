package transport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/cart"
	"github.com/Skotchmaster/bodega/internal/checkout"
)

// PriceInput accepts a price written either as a JSON number or a string.
// null decodes to the empty value.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		*p = PriceInput(n.String())
	}
	return nil
}

type CreateProductRequest struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Price    PriceInput `json:"price"`
	ImageURL string     `json:"image_url"`
}

// PatchProductRequest leaves a field untouched when it is nil. An empty
// ImageURL clears the image.
type PatchProductRequest struct {
	Name     *string     `json:"name"`
	Category *string     `json:"category"`
	Price    *PriceInput `json:"price"`
	ImageURL *string     `json:"image_url"`
	IsActive *bool       `json:"is_active"`
}

type CartLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CartAction struct {
	Op        cart.Op   `json:"op"`
	ProductID uuid.UUID `json:"product_id"`
}

type CartRequest struct {
	Lines        []CartLineInput `json:"lines"`
	Action       *CartAction     `json:"action,omitempty"`
	DeliveryType string          `json:"delivery_type"`
}

type CartResponse struct {
	Lines        []cart.Line       `json:"lines"`
	DeliveryType cart.DeliveryType `json:"delivery_type"`
	Unavailable  []uuid.UUID       `json:"unavailable,omitempty"`
	cart.Totals
}

type CheckoutRequest struct {
	Lines        []CartLineInput `json:"lines"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	DeliveryType string          `json:"delivery_type"`
	Address      string          `json:"address"`
	Note         string          `json:"note"`
}

type CheckoutResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	cart.Totals
}

type StoreResponse struct {
	checkout.Store
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

type ContactResponse struct {
	URL string `json:"url"`
}
