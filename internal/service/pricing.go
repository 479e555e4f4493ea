package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bodega/internal/cart"
	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/transport"
)

const (
	unavailableMessage = "Producto no disponible"
	quantityMessage    = "Cantidad inválida."
)

type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// activeProducts loads the active products among ids, keyed by id.
func activeProducts(ctx context.Context, lookup ProductLookup, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	found, err := lookup.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		if p.IsActive {
			out[p.ID] = p
		}
	}
	return out, nil
}

func lineIDs(lines []transport.CartLineInput, extra ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(lines)+len(extra))
	ids := make([]uuid.UUID, 0, len(lines)+len(extra))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	for _, id := range extra {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// checkQuantities rejects lines above cart.MaxQuantity. Non-positive lines
// are dropped later by cart.New.
func checkQuantities(lines []transport.CartLineInput) error {
	for _, l := range lines {
		if l.Quantity > cart.MaxQuantity {
			return invalid(quantityMessage)
		}
	}
	return nil
}

func itemOf(p models.Product) cart.Item {
	return cart.Item{ProductID: p.ID, Name: p.Name, Price: p.Price}
}

// priceLines builds a cart priced from the catalog. Lines whose product is
// missing or inactive are left out and their ids returned.
func priceLines(lines []transport.CartLineInput, catalog map[uuid.UUID]models.Product) (cart.Cart, []uuid.UUID) {
	priced := make([]cart.Line, 0, len(lines))
	var unavailable []uuid.UUID
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		p, ok := catalog[l.ProductID]
		if !ok {
			unavailable = append(unavailable, l.ProductID)
			continue
		}
		priced = append(priced, cart.Line{Item: itemOf(p), Quantity: l.Quantity})
	}
	return cart.New(priced...), unavailable
}

// shapeOnly is a cart holding only ids and quantities, enough to run the
// checks that come before any catalog lookup.
func shapeOnly(lines []transport.CartLineInput) cart.Cart {
	raw := make([]cart.Line, 0, len(lines))
	for _, l := range lines {
		raw = append(raw, cart.Line{Item: cart.Item{ProductID: l.ProductID}, Quantity: l.Quantity})
	}
	return cart.New(raw...)
}
