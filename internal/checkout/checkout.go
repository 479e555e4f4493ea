// Package checkout turns a cart and the customer's details into the WhatsApp
// order message and deep link. Nothing here performs I/O.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Skotchmaster/bodega/internal/cart"
)

const Currency = "S/"

var ErrNoPhone = errors.New("checkout: phone has no digits")

// NoPhoneMessage is shown to the admin when ContactLink fails.
const NoPhoneMessage = "No hay celular válido."

type Store struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Hours    string `json:"hours"`
	WhatsApp string `json:"whatsapp"`
}

type Details struct {
	Name     string
	Phone    string
	Delivery cart.DeliveryType
	Address  string
	Note     string
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate reports the first missing requirement. Values are trimmed before
// being checked.
func Validate(c cart.Cart, d Details) error {
	switch {
	case blank(d.Name):
		return &ValidationError{Field: "name", Message: "Completa tu nombre."}
	case blank(d.Phone):
		return &ValidationError{Field: "phone", Message: "Completa tu celular."}
	case d.Delivery == cart.Delivery && blank(d.Address):
		return &ValidationError{Field: "address", Message: "Ingresa tu dirección para delivery."}
	case c.IsEmpty():
		return &ValidationError{Field: "lines", Message: "Agrega al menos 1 producto."}
	}
	return nil
}

func BuildMessage(s Store, c cart.Cart, d Details, t cart.Totals) string {
	var items strings.Builder
	if c.IsEmpty() {
		items.WriteString("• (Sin productos)")
	}
	for i, l := range c.Lines() {
		if i > 0 {
			items.WriteByte('\n')
		}
		fmt.Fprintf(&items, "• %s x%d — %s", l.Name, l.Quantity, money(l.Subtotal().StringFixed(2)))
	}

	delivery := "🏪 *Tipo:* Recojo en tienda"
	if d.Delivery == cart.Delivery {
		delivery = "🚚 *Tipo:* Delivery\n📍 *Dirección:* " + orDash(d.Address)
	}

	note := strings.TrimSpace(d.Note)
	if note == "" {
		note = "Sin nota"
	}

	lines := []string{
		fmt.Sprintf("📋 *PEDIDO - %s*", s.Name),
		"",
		"👤 *Nombre:* " + orDash(d.Name),
		"📱 *Celular:* " + orDash(d.Phone),
		"",
		delivery,
		"",
		"🛒 *Productos:*",
		items.String(),
		"",
		"📝 *Subtotal:* " + money(t.Subtotal.StringFixed(2)),
		"🚚 *Delivery:* " + money(t.DeliveryFee.StringFixed(2)),
		"💰 *Total:* " + money(t.Total.StringFixed(2)),
		"",
		"🗒️ *Nota:* " + note,
		"",
		"📍 *Ubicación:* " + s.Address,
		"🕜 *Horario:* " + s.Hours,
	}
	return strings.Join(lines, "\n")
}

// DeepLink query-escapes message with spaces written as %20. Reserved
// characters such as !'()* are escaped too and decode to the same text.
func DeepLink(number, message string) string {
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// ContactLink opens a chat with the customer. Numbers written with a leading
// "+" already carry their country code.
func ContactLink(countryCode, phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrNoPhone
	}
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "https://wa.me/" + digits, nil
	}
	return "https://wa.me/" + countryCode + digits, nil
}

func money(amount string) string { return Currency + " " + amount }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func orDash(s string) string {
	if blank(s) {
		return "-"
	}
	return strings.TrimSpace(s)
}
