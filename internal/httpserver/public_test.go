package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/service"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	c := env.anonymous()

	assert.Equal(t, http.StatusOK, c.do(t, http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(t, http.MethodGet, "/health/ready", nil).Code)
}

func TestStore(t *testing.T) {
	env := newTestEnv(t)

	rec := env.anonymous().do(t, http.MethodGet, "/api/v1/store", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Bodega Test", body["name"])
	assert.Equal(t, "5.00", decimalField(t, body, "delivery_fee").StringFixed(2))
}

func TestCatalog_ListActive(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "Arroz", "4.50", true)
	env.seedProduct(t, "Oculto", "1.00", false)

	rec := env.anonymous().do(t, http.MethodGet, "/api/v1/catalog/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := decodeMap(t, rec)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, "Arroz", data[0].(map[string]any)["name"])
}

type failingLister struct{}

func (failingLister) ListActiveProducts(context.Context) ([]models.Product, error) {
	return nil, errors.New("db down")
}

func TestCatalog_ListActive_Failure(t *testing.T) {
	t.Parallel()

	h := &CatalogHTTP{Svc: &service.CatalogService{Lister: failingLister{}}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListActive(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "No se pudo cargar el catálogo.", he.Message)
}

func TestCatalog_Search(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "Leche Gloria", "4.20", true)
	env.seedProduct(t, "Leche Laive", "4.10", true)
	env.seedProduct(t, "Pan", "0.30", true)
	c := env.anonymous()

	rec := c.do(t, http.MethodGet, "/api/v1/catalog/products/search?q=leche&page=1&size=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])
	assert.Equal(t, true, meta["has_next"])

	rec = c.do(t, http.MethodGet, "/api/v1/catalog/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart(t *testing.T) {
	env := newTestEnv(t)
	arroz := env.seedProduct(t, "Arroz", "10", true)
	pan := env.seedProduct(t, "Pan", "3", true)

	rec := env.anonymous().do(t, http.MethodPost, "/api/v1/cart", map[string]any{
		"lines":  []map[string]any{{"product_id": arroz.ID, "quantity": 2}},
		"action": map[string]any{"op": "add", "product_id": pan.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	assert.Len(t, body["lines"], 2)
	assert.Equal(t, "23.00", decimalField(t, body, "subtotal").StringFixed(2))
	assert.Equal(t, "5.00", decimalField(t, body, "delivery_fee").StringFixed(2))
	assert.Equal(t, "28.00", decimalField(t, body, "total").StringFixed(2))

	rec = env.anonymous().do(t, http.MethodPost, "/api/v1/cart", map[string]any{
		"lines": []map[string]any{{"product_id": arroz.ID, "quantity": 1000}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cantidad inválida.", decodeMap(t, rec)["message"])
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	arroz := env.seedProduct(t, "Arroz", "10", true)
	c := env.anonymous()

	rec := c.do(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"lines": []map[string]any{{"product_id": arroz.ID, "quantity": 1}},
		"phone": "987654321",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Completa tu nombre.", decodeMap(t, rec)["message"])
	assert.Empty(t, env.Pub.types)

	rec = c.do(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"lines":         []map[string]any{{"product_id": arroz.ID, "quantity": 1}},
		"name":          "Rosa",
		"phone":         "987654321",
		"delivery_type": "pickup",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeMap(t, rec)
	assert.True(t, strings.HasPrefix(body["url"].(string), "https://wa.me/51908953959?text="))
	assert.Contains(t, body["message"], "Recojo en tienda")
	assert.Equal(t, "10.00", decimalField(t, body, "total").StringFixed(2))
	assert.Equal(t, []string{"checkout_submitted"}, env.Pub.types)

	var count int64
	require.NoError(t, env.Repo.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "checkout does not store orders")
}
