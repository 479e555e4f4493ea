package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/checkout"
	"github.com/Skotchmaster/bodega/internal/export"
	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/mykafka"
	"github.com/Skotchmaster/bodega/internal/orders"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

type OrderStore interface {
	ListOrders(ctx context.Context, withItems bool) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type OrderAdminService struct {
	Repo        OrderStore
	Products    ProductLookup
	Events      mykafka.Publisher
	DeliveryFee decimal.Decimal
	CountryCode string
}

func (s *OrderAdminService) List(ctx context.Context, filter, query string, withItems bool) ([]models.Order, error) {
	f, err := orders.ParseFilter(filter)
	if err != nil {
		return nil, invalid("Filtro inválido.")
	}
	list, err := s.Repo.ListOrders(ctx, withItems)
	if err != nil {
		return nil, err
	}
	return orders.Filter(list, f, query), nil
}

func (s *OrderAdminService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *OrderAdminService) Items(ctx context.Context, id uuid.UUID) ([]models.OrderItem, error) {
	items, err := s.Repo.ListOrderItems(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return items, nil
}

// UpdateStatus persists status and returns the stored order. On failure the
// stored order is unchanged.
func (s *OrderAdminService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	st, err := orders.ParseStatus(status)
	if err != nil {
		return nil, invalid("Estado inválido.")
	}
	o, err := s.Repo.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return nil, notFound(err)
	}
	logging.FromContext(ctx).Info("order_status_updated", "order_id", id, "status", st)
	return o, nil
}

// Record stores an order taken over WhatsApp. Lines are priced from the
// catalog and copied into the item snapshots.
func (s *OrderAdminService) Record(ctx context.Context, req transport.CheckoutRequest) (*models.Order, error) {
	pricer := CheckoutService{Products: s.Products, DeliveryFee: s.DeliveryFee}
	c, d, err := pricer.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	totals := c.Totals(d.Delivery, s.DeliveryFee)

	items := make([]models.OrderItem, 0, c.Len())
	for _, l := range c.Lines() {
		pid := l.ProductID
		items = append(items, models.OrderItem{
			ProductID:     &pid,
			NameSnapshot:  l.Name,
			PriceSnapshot: l.Price,
			Quantity:      l.Quantity,
		})
	}

	order := &models.Order{
		CustomerName: d.Name,
		Phone:        d.Phone,
		DeliveryType: string(d.Delivery),
		Address:      d.Address,
		Note:         d.Note,
		Subtotal:     totals.Subtotal,
		DeliveryFee:  totals.DeliveryFee,
		Total:        totals.Total,
		Status:       models.OrderStatusPending,
		Items:        items,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	for i := range order.Items {
		order.Items[i].Subtotal = order.Items[i].LineSubtotal()
	}

	publish(ctx, s.Events, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":     "order_recorded",
		"order_id": order.ID,
		"total":    order.Total,
	})
	return order, nil
}

func (s *OrderAdminService) ContactLink(ctx context.Context, id uuid.UUID) (string, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return "", notFound(err)
	}
	link, err := checkout.ContactLink(s.CountryCode, o.Phone)
	if errors.Is(err, checkout.ErrNoPhone) {
		return "", invalid(checkout.NoPhoneMessage)
	}
	return link, err
}

// Export writes the filtered orders, with their items, as an xlsx workbook.
func (s *OrderAdminService) Export(ctx context.Context, w io.Writer, filter, query string) error {
	list, err := s.List(ctx, filter, query, true)
	if err != nil {
		return err
	}
	if err := export.WriteOrders(w, list); err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	return nil
}
