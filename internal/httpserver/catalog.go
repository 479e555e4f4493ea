package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/checkout"
	"github.com/Skotchmaster/bodega/internal/service"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/internal/util"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type CatalogHTTP struct {
	Svc         *service.CatalogService
	Store       checkout.Store
	DeliveryFee decimal.Decimal
}

func (h *CatalogHTTP) GetStore(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.StoreResponse{Store: h.Store, DeliveryFee: h.DeliveryFee})
}

func (h *CatalogHTTP) ListActive(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_active")

	items, err := h.Svc.ListActive(ctx)
	if err != nil {
		l.Error("list_active_error", "status", 500, "reason", "cannot load catalog", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo cargar el catálogo.")
	}

	l.Info("list_active_success", "count", len(items))
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_error", err, "No se pudo buscar.")
	}

	l.Info("search_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": util.TotalPages(total, limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}
