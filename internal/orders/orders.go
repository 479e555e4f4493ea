package orders

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Skotchmaster/bodega/internal/models"
)

var (
	ErrUnknownStatus = errors.New("orders: unknown status")
	ErrUnknownFilter = errors.New("orders: unknown status filter")
)

// ParseStatus maps user input onto a status. Any status may follow any other.
func ParseStatus(s string) (models.OrderStatus, error) {
	switch models.OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case models.OrderStatusPending:
		return models.OrderStatusPending, nil
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = StatusFilter(models.OrderStatusPending)
	FilterDelivered StatusFilter = StatusFilter(models.OrderStatusDelivered)
)

func ParseFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending, FilterDelivered:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

func (f StatusFilter) Match(o models.Order) bool {
	return f == FilterAll || f == "" || string(o.Status) == string(f)
}

// Filter returns the orders matching f whose customer name or phone contains
// query, ignoring case. The result is a new slice in input order.
func Filter(list []models.Order, f StatusFilter, query string) []models.Order {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if !f.Match(o) {
			continue
		}
		if q != "" &&
			!strings.Contains(fold.String(o.CustomerName), q) &&
			!strings.Contains(fold.String(o.Phone), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}
