package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bodega/internal/cart"
	"github.com/Skotchmaster/bodega/internal/checkout"
	"github.com/Skotchmaster/bodega/internal/guard"
	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/repo"
	"github.com/Skotchmaster/bodega/internal/service"
)

const testPassword = "admin123"

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, e any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := e.(map[string]any); ok {
		t, _ := m["type"].(string)
		p.types = append(p.types, t)
	}
	return nil
}

type testEnv struct {
	E    *echo.Echo
	Repo *repo.GormRepo
	Pub  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(db))

	r := &repo.GormRepo{DB: db}
	pub := &recordingPublisher{}
	g, err := guard.New(testPassword, []byte("test-session-secret"), r)
	require.NoError(t, err)

	store := checkout.Store{Name: "Bodega Test", Address: "Jr. Tacna", Hours: "7 a 22", WhatsApp: "51908953959"}

	e := echo.New()
	Register(e, &Deps{
		CatalogHandler: &CatalogHTTP{
			Svc:         &service.CatalogService{Lister: r, Fallback: r},
			Store:       store,
			DeliveryFee: cart.DefaultDeliveryFee,
		},
		CheckoutHandler: &CheckoutHTTP{Svc: &service.CheckoutService{
			Products: r, Events: pub, Store: store, DeliveryFee: cart.DefaultDeliveryFee,
		}},
		SessionHandler:  &SessionHTTP{Guard: g},
		ProductsHandler: &AdminProductsHTTP{Svc: &service.ProductAdminService{Repo: r, Events: pub}},
		OrdersHandler: &AdminOrdersHTTP{Svc: &service.OrderAdminService{
			Repo: r, Products: r, Events: pub, DeliveryFee: cart.DefaultDeliveryFee, CountryCode: "51",
		}},
		Guard: g,
		Ready: r.Ping,
	})

	return &testEnv{E: e, Repo: r, Pub: pub}
}

func (env *testEnv) seedProduct(t *testing.T, name, price string, active bool) models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Category:  "abarrotes",
		Price:     decimal.RequireFromString(price),
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, env.Repo.CreateProduct(context.Background(), &p))
	return p
}

// client carries the cookies and CSRF token of one browser.
type client struct {
	env     *testEnv
	cookies []*http.Cookie
	csrf    string
}

func (env *testEnv) anonymous() *client { return &client{env: env} }

func (c *client) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Origin", "http://example.com")
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) loginAdmin(t *testing.T) *client {
	t.Helper()

	c := env.anonymous()
	rec := c.do(t, http.MethodPost, "/api/v1/admin/session", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookies = append(c.cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	require.Len(t, c.cookies, 1)

	rec = c.do(t, http.MethodGet, "/api/v1/admin/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c.csrf = rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, c.csrf)
	c.cookies = append(c.cookies, &http.Cookie{Name: "XSRF-TOKEN", Value: c.csrf})
	return c
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decimalField(t *testing.T, m map[string]any, key string) decimal.Decimal {
	t.Helper()
	s, ok := m[key].(string)
	require.True(t, ok, "%s is %T", key, m[key])
	return decimal.RequireFromString(s)
}
