package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bodega/internal/service"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Cart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Evaluate(ctx, req)
	if err != nil {
		return fail(l, "cart_error", err, "No se pudo actualizar el carrito.")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return fail(l, "checkout_error", err, "No se pudo preparar el pedido.")
	}

	l.Info("checkout_success")
	return c.JSON(http.StatusOK, res)
}
