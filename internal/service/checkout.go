package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/cart"
	"github.com/Skotchmaster/bodega/internal/checkout"
	"github.com/Skotchmaster/bodega/internal/mykafka"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type CheckoutService struct {
	Products    ProductLookup
	Events      mykafka.Publisher
	Store       checkout.Store
	DeliveryFee decimal.Decimal
}

func parseDelivery(s string) (cart.DeliveryType, error) {
	dt, err := cart.ParseDeliveryType(s)
	if err != nil {
		return "", invalid("Tipo de entrega inválido.")
	}
	return dt, nil
}

// Evaluate re-prices the client's cart from the catalog, applies the optional
// action and returns the new snapshot. Products that are no longer sold are
// dropped and listed in Unavailable.
func (s *CheckoutService) Evaluate(ctx context.Context, req transport.CartRequest) (transport.CartResponse, error) {
	dt, err := parseDelivery(req.DeliveryType)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if err := checkQuantities(req.Lines); err != nil {
		return transport.CartResponse{}, err
	}

	var extra []uuid.UUID
	if req.Action != nil {
		if req.Action.ProductID == uuid.Nil {
			return transport.CartResponse{}, invalid("Falta producto.")
		}
		extra = append(extra, req.Action.ProductID)
	}

	catalog, err := activeProducts(ctx, s.Products, lineIDs(req.Lines, extra...))
	if err != nil {
		return transport.CartResponse{}, err
	}
	c, unavailable := priceLines(req.Lines, catalog)

	if a := req.Action; a != nil {
		it := cart.Item{ProductID: a.ProductID}
		if p, ok := catalog[a.ProductID]; ok {
			it = itemOf(p)
		} else if strings.EqualFold(string(a.Op), string(cart.OpAdd)) {
			return transport.CartResponse{}, invalid(unavailableMessage)
		}
		if c, err = c.Apply(a.Op, it); err != nil {
			return transport.CartResponse{}, invalid("Acción inválida.")
		}
	}

	return transport.CartResponse{
		Lines:        c.Lines(),
		DeliveryType: dt,
		Unavailable:  unavailable,
		Totals:       c.Totals(dt, s.DeliveryFee),
	}, nil
}

// prepare validates an order request and prices it. Customer details are
// checked before the catalog is read.
func (s *CheckoutService) prepare(ctx context.Context, req transport.CheckoutRequest) (cart.Cart, checkout.Details, error) {
	dt, err := parseDelivery(req.DeliveryType)
	if err != nil {
		return cart.Cart{}, checkout.Details{}, err
	}
	d := checkout.Details{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Delivery: dt,
		Address:  strings.TrimSpace(req.Address),
		Note:     strings.TrimSpace(req.Note),
	}
	if dt == cart.Pickup {
		d.Address = ""
	}

	var ve *checkout.ValidationError
	if err := checkout.Validate(shapeOnly(req.Lines), d); errors.As(err, &ve) {
		return cart.Cart{}, d, invalid(ve.Message)
	}
	if err := checkQuantities(req.Lines); err != nil {
		return cart.Cart{}, d, err
	}

	catalog, err := activeProducts(ctx, s.Products, lineIDs(req.Lines))
	if err != nil {
		return cart.Cart{}, d, err
	}
	c, unavailable := priceLines(req.Lines, catalog)
	if len(unavailable) > 0 {
		return cart.Cart{}, d, invalid(unavailableMessage)
	}
	return c, d, nil
}

// Submit builds the WhatsApp order link. Nothing is stored; the order is
// announced on the order events topic for whoever records it.
func (s *CheckoutService) Submit(ctx context.Context, req transport.CheckoutRequest) (transport.CheckoutResponse, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.submit")

	c, d, err := s.prepare(ctx, req)
	if err != nil {
		return transport.CheckoutResponse{}, err
	}

	totals := c.Totals(d.Delivery, s.DeliveryFee)
	msg := checkout.BuildMessage(s.Store, c, d, totals)
	link := checkout.DeepLink(s.Store.WhatsApp, msg)

	publish(ctx, s.Events, mykafka.TopicOrderEvents, d.Phone, map[string]any{
		"type":          "checkout_submitted",
		"customer_name": d.Name,
		"phone":         d.Phone,
		"delivery_type": d.Delivery,
		"address":       d.Address,
		"note":          d.Note,
		"lines":         c.Lines(),
		"subtotal":      totals.Subtotal,
		"delivery_fee":  totals.DeliveryFee,
		"total":         totals.Total,
	})

	l.Info("checkout_submitted", "lines", c.Len(), "total", totals.Total.StringFixed(2))
	return transport.CheckoutResponse{Message: msg, URL: link, Totals: totals}, nil
}
