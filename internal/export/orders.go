package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/bodega/internal/models"
)

const (
	OrdersSheet = "Pedidos"
	ItemsSheet  = "Items"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

var (
	orderHeaders = []string{
		"ID", "Fecha", "Cliente", "Celular", "Tipo", "Dirección", "Nota",
		"Subtotal", "Delivery", "Total", "Estado",
	}
	itemHeaders = []string{"Pedido", "Producto", "Precio", "Cantidad", "Subtotal"}
)

// WriteOrders renders orders as a workbook with one sheet for the orders and
// one for their items. Items are read from each order's Items field.
func WriteOrders(w io.Writer, list []models.Order) error {
	file := xlsx.NewFile()

	orderSheet, err := file.AddSheet(OrdersSheet)
	if err != nil {
		return fmt.Errorf("export: add sheet %s: %w", OrdersSheet, err)
	}
	itemSheet, err := file.AddSheet(ItemsSheet)
	if err != nil {
		return fmt.Errorf("export: add sheet %s: %w", ItemsSheet, err)
	}

	addHeader(orderSheet, orderHeaders)
	addHeader(itemSheet, itemHeaders)

	for _, o := range list {
		row := orderSheet.AddRow()
		row.AddCell().SetString(o.ID.String())
		row.AddCell().SetString(o.CreatedAt.Format(timeLayout))
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.Phone)
		row.AddCell().SetString(o.DeliveryType)
		row.AddCell().SetString(o.Address)
		row.AddCell().SetString(o.Note)
		row.AddCell().SetString(o.Subtotal.StringFixed(2))
		row.AddCell().SetString(o.DeliveryFee.StringFixed(2))
		row.AddCell().SetString(o.Total.StringFixed(2))
		row.AddCell().SetString(string(o.Status))

		for _, it := range o.Items {
			irow := itemSheet.AddRow()
			irow.AddCell().SetString(o.ID.String())
			irow.AddCell().SetString(it.NameSnapshot)
			irow.AddCell().SetString(it.PriceSnapshot.StringFixed(2))
			irow.AddCell().SetInt(it.Quantity)
			irow.AddCell().SetString(it.LineSubtotal().StringFixed(2))
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}
