package bulk

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/orders"
)

var exportHeader = []string{
	"Customer", "Phone", "Governorate", "Address", "Products", "Quantity",
	"Discount", "Shipping", "Total", "Status", "Date", "Notes",
}

// WriteOrders renders the orders as an xlsx workbook. Product ids are
// resolved to names through the catalog snapshot; ids of removed products are
// emitted verbatim so the row stays readable.
func WriteOrders(w io.Writer, orderRows []orders.Order, productRows []products.Product) error {
	names := make(map[string]string, len(productRows))
	for _, p := range productRows {
		names[p.ID.String()] = p.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for i, order := range orderRows {
		var productCol, qtyCol []string
		for _, item := range order.Items {
			name, ok := names[item.ProductID.String()]
			if !ok {
				name = item.ProductID.String()
			}
			productCol = append(productCol, name)
			qtyCol = append(qtyCol, fmt.Sprintf("%d", item.Quantity))
		}

		values := []any{
			order.CustomerName,
			order.Phone,
			order.Governorate,
			order.Address,
			strings.Join(productCol, ", "),
			strings.Join(qtyCol, ", "),
			order.Discount,
			order.ShippingCost,
			order.TotalPrice,
			string(order.Status),
			order.Date.Format("2006-01-02"),
			order.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
