package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/mykafka"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ProductAdminService manages the catalog. Cache, Index and Events are
// optional and their failures never fail a mutation.
type ProductAdminService struct {
	Repo   ProductStore
	Cache  Invalidator
	Index  ProductIndexer
	Events mykafka.Publisher
}

func parsePrice(in transport.PriceInput) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(in))
	if s == "" {
		return decimal.Zero, invalid("Precio inválido")
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, invalid("Precio inválido")
	}
	return d.Round(2), nil
}

func imageURL(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *ProductAdminService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *ProductAdminService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" {
		return nil, invalid("Falta nombre")
	}
	if category == "" {
		return nil, invalid("Falta categoría")
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:     name,
		Category: category,
		Price:    price,
		ImageURL: imageURL(req.ImageURL),
		IsActive: true,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.changed(ctx, "product_created", prod)
	return prod, nil
}

// Patch updates only the fields present in req.
func (s *ProductAdminService) Patch(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("Falta nombre")
		}
		fields["name"] = name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, invalid("Falta categoría")
		}
		fields["category"] = category
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		fields["price"] = price
	}
	if req.ImageURL != nil {
		fields["image_url"] = imageURL(*req.ImageURL)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, notFound(err)
	}

	s.changed(ctx, "product_updated", prod)
	return prod, nil
}

func (s *ProductAdminService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	cur, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	prod, err := s.Repo.UpdateProduct(ctx, id, map[string]any{"is_active": !cur.IsActive})
	if err != nil {
		return nil, notFound(err)
	}

	s.changed(ctx, "product_toggled", prod)
	return prod, nil
}

func (s *ProductAdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err)
	}

	l := logging.FromContext(ctx).With("svc", "products.delete", "product_id", id)
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_unindex_error", "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

func (s *ProductAdminService) changed(ctx context.Context, kind string, prod *models.Product) {
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *prod); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", prod.ID, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID.String(), map[string]any{
		"type":       kind,
		"product_id": prod.ID,
		"name":       prod.Name,
		"price":      prod.Price,
		"is_active":  prod.IsActive,
	})
}

func (s *ProductAdminService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("catalog_cache_invalidate_error", "error", err)
	}
}
