package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bodega/internal/guard"
	"github.com/Skotchmaster/bodega/pkg/middleware/csrf"
)

type Deps struct {
	CatalogHandler  *CatalogHTTP
	CheckoutHandler *CheckoutHTTP
	SessionHandler  *SessionHTTP
	ProductsHandler *AdminProductsHTTP
	OrdersHandler   *AdminOrdersHTTP

	Guard        *guard.Guard
	CookieSecure bool
	Ready        func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1")
	api.GET("/store", d.CatalogHandler.GetStore)
	api.GET("/catalog/products", d.CatalogHandler.ListActive)
	api.GET("/catalog/products/search", d.CatalogHandler.Search)
	api.POST("/cart", d.CheckoutHandler.Cart)
	api.POST("/checkout", d.CheckoutHandler.Submit)

	admin := api.Group("/admin", csrf.Middleware(csrf.Config{
		Secure: d.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodPost && c.Path() == "/api/v1/admin/session"
		},
	}))
	admin.POST("/session", d.SessionHandler.Login)
	admin.GET("/session", d.SessionHandler.Status)
	admin.DELETE("/session", d.SessionHandler.Logout)

	guarded := admin.Group("", RequireAdmin(d.Guard))

	products := guarded.Group("/products")
	products.GET("", d.ProductsHandler.List)
	products.POST("", d.ProductsHandler.Create)
	products.PATCH("/:id", d.ProductsHandler.Patch)
	products.DELETE("/:id", d.ProductsHandler.Delete)
	products.POST("/:id/toggle", d.ProductsHandler.Toggle)

	orders := guarded.Group("/orders")
	orders.GET("", d.OrdersHandler.List)
	orders.POST("", d.OrdersHandler.Record)
	orders.GET("/export", d.OrdersHandler.Export)
	orders.GET("/:id", d.OrdersHandler.Get)
	orders.GET("/:id/items", d.OrdersHandler.Items)
	orders.PATCH("/:id/status", d.OrdersHandler.UpdateStatus)
	orders.GET("/:id/contact", d.OrdersHandler.Contact)
}
