package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type ActiveProductLister interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
}

type ProductSearcher interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// CatalogService serves the public storefront. Index is optional; without it,
// or when it fails, searches go to Fallback.
type CatalogService struct {
	Lister   ActiveProductLister
	Index    ProductSearcher
	Fallback ProductSearcher
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Product, error) {
	return s.Lister.ListActiveProducts(ctx)
}

func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, invalid("Ingresa un término de búsqueda.")
	}

	if s.Index != nil {
		total, items, err := s.Index.SearchProducts(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to database", "error", err)
	}
	return s.Fallback.SearchProducts(ctx, q, offset, limit)
}
