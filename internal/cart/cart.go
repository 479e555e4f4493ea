// Package cart holds the shopping cart state machine. A Cart is an immutable
// value: every operation returns a new Cart and leaves the receiver untouched.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	Delivery DeliveryType = "delivery"
	Pickup   DeliveryType = "pickup"
)

// MaxQuantity caps a single line.
const MaxQuantity = 999

// DefaultDeliveryFee is charged once per order when it is delivered.
var DefaultDeliveryFee = decimal.NewFromInt(5)

var (
	ErrUnknownOp           = errors.New("cart: unknown operation")
	ErrUnknownDeliveryType = errors.New("cart: unknown delivery type")
)

// ParseDeliveryType accepts "delivery" or "pickup" in any case. An empty
// value means delivery.
func ParseDeliveryType(s string) (DeliveryType, error) {
	switch DeliveryType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Delivery:
		return Delivery, nil
	case Pickup:
		return Pickup, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDeliveryType, s)
	}
}

type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type Line struct {
	Item
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	lines []Line
}

// New builds a cart from raw lines. Repeated products are merged into the
// first occurrence, lines with a non-positive quantity are dropped and
// quantities are clamped to MaxQuantity.
func New(lines ...Line) Cart {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := indexOf(out, l.ProductID); i >= 0 {
			out[i].Quantity = clamp(out[i].Quantity, l.Quantity)
			continue
		}
		l.Quantity = min(l.Quantity, MaxQuantity)
		out = append(out, l)
	}
	return Cart{lines: out}
}

func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) Len() int { return len(c.lines) }

func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Quantity returns 0 for products not in the cart.
func (c Cart) Quantity(id uuid.UUID) int {
	if i := indexOf(c.lines, id); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c Cart) Add(it Item) Cart {
	if i := indexOf(c.lines, it.ProductID); i >= 0 {
		return c.Increment(it.ProductID)
	}
	out := c.Lines()
	return Cart{lines: append(out, Line{Item: it, Quantity: 1})}
}

// Increment leaves a line already at MaxQuantity unchanged.
func (c Cart) Increment(id uuid.UUID) Cart {
	return c.adjust(id, 1)
}

// Decrement removes the line once its quantity would drop below one.
func (c Cart) Decrement(id uuid.UUID) Cart {
	return c.adjust(id, -1)
}

func (c Cart) Remove(id uuid.UUID) Cart {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if l.ProductID != id {
			out = append(out, l)
		}
	}
	return Cart{lines: out}
}

func (c Cart) adjust(id uuid.UUID, delta int) Cart {
	i := indexOf(c.lines, id)
	if i < 0 {
		return c
	}
	if delta > 0 && c.lines[i].Quantity >= MaxQuantity {
		return c
	}
	out := c.Lines()
	out[i].Quantity = clamp(out[i].Quantity, delta)
	if out[i].Quantity < 1 {
		return Cart{lines: append(out[:i], out[i+1:]...)}
	}
	return Cart{lines: out}
}

type Op string

const (
	OpAdd       Op = "add"
	OpIncrement Op = "increment"
	OpDecrement Op = "decrement"
	OpRemove    Op = "remove"
)

// Apply dispatches op. Only OpAdd reads more than it.ProductID.
func (c Cart) Apply(op Op, it Item) (Cart, error) {
	switch Op(strings.ToLower(string(op))) {
	case OpAdd:
		return c.Add(it), nil
	case OpIncrement:
		return c.Increment(it.ProductID), nil
	case OpDecrement:
		return c.Decrement(it.ProductID), nil
	case OpRemove:
		return c.Remove(it.ProductID), nil
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Totals charges fee only for Delivery.
func (c Cart) Totals(dt DeliveryType, fee decimal.Decimal) Totals {
	sub := c.Subtotal()
	charged := decimal.Zero
	if dt == Delivery {
		charged = fee
	}
	return Totals{
		Subtotal:    sub,
		DeliveryFee: charged,
		Total:       sub.Add(charged),
	}
}

// clamp adds delta to q without passing MaxQuantity. q is at most
// MaxQuantity, so the comparison cannot overflow.
func clamp(q, delta int) int {
	if delta > MaxQuantity-q {
		return MaxQuantity
	}
	return q + delta
}

func indexOf(lines []Line, id uuid.UUID) int {
	for i := range lines {
		if lines[i].ProductID == id {
			return i
		}
	}
	return -1
}
