package httpserver

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bodega/internal/export"
	"github.com/Skotchmaster/bodega/internal/service"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/internal/util"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type AdminOrdersHTTP struct {
	Svc *service.OrderAdminService
}

func (h *AdminOrdersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.list")

	withItems := util.ParseBoolDefault(c.QueryParam("items"), false)
	list, err := h.Svc.List(ctx, c.QueryParam("status"), c.QueryParam("q"), withItems)
	if err != nil {
		return fail(l, "list_orders_error", err, "cannot load orders")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": list})
}

func (h *AdminOrdersHTTP) Record(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.record")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("record_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Record(ctx, req)
	if err != nil {
		return fail(l, "record_order_error", err, "cannot save order")
	}

	l.Info("record_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *AdminOrdersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.get")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	order, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err, "cannot load order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminOrdersHTTP) Items(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.items")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_items_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	items, err := h.Svc.Items(ctx, id)
	if err != nil {
		return fail(l, "order_items_error", err, "cannot load order items")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}

func (h *AdminOrdersHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.update_status")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_status_error", err, "No se pudo actualizar el estado.")
	}

	l.Info("update_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *AdminOrdersHTTP) Contact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.contact")

	id, err := parseID(c)
	if err != nil {
		l.Warn("contact_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	link, err := h.Svc.ContactLink(ctx, id)
	if err != nil {
		return fail(l, "contact_error", err, "cannot build contact link")
	}
	return c.JSON(http.StatusOK, transport.ContactResponse{URL: link})
}

func (h *AdminOrdersHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.export")

	var buf bytes.Buffer
	if err := h.Svc.Export(ctx, &buf, c.QueryParam("status"), c.QueryParam("q")); err != nil {
		return fail(l, "export_orders_error", err, "cannot export orders")
	}

	l.Info("export_orders_success", "bytes", buf.Len())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="pedidos.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
