package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFServer() *echo.Echo {
	e := echo.New()
	g := e.Group("", Middleware(Config{Secure: false}))
	g.GET("/form", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	g.POST("/form", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	return e
}

func TestMiddleware_IssuesTokenOnSafeMethod(t *testing.T) {
	t.Parallel()

	e := newCSRFServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, token)

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			found = true
			assert.Equal(t, token, ck.Value)
		}
	}
	assert.True(t, found)
}

func TestMiddleware_UnsafeMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		origin string
		want   int
	}{
		{name: "matching token", header: "tok", origin: "http://example.com", want: http.StatusCreated},
		{name: "missing token", header: "", origin: "http://example.com", want: http.StatusForbidden},
		{name: "wrong token", header: "other", origin: "http://example.com", want: http.StatusForbidden},
		{name: "foreign origin", header: "tok", origin: "http://evil.test", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newCSRFServer()
			req := httptest.NewRequest(http.MethodPost, "/form", nil)
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
			req.Header.Set("Origin", tt.origin)
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMiddleware_Skipper(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		Middleware(Config{Skipper: func(echo.Context) bool { return true }}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
