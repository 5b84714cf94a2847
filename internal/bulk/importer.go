package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/catalog/shippers"
	"github.com/tajirhq/tajir/internal/orders"
)

// Row is one parsed spreadsheet line before matching. Products holds
// "name x quantity" pairs.
type Row struct {
	Line         int
	CustomerName string
	Phone        string
	Governorate  string
	Address      string
	ShipperName  string
	Products     []RowProduct
	Discount     float64
	Notes        string
}

// RowProduct is one product reference within a row.
type RowProduct struct {
	Name     string
	Quantity int
}

// RowResult reports the outcome of one imported row.
type RowResult struct {
	Line    int       `json:"line"`
	OrderID uuid.UUID `json:"order_id,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	Created int         `json:"created"`
	Failed  int         `json:"failed"`
	Rows    []RowResult `json:"rows"`
}

// Expected column order of the import sheet. The first row is a header and
// is skipped.
const (
	colCustomer = iota
	colPhone
	colGovernorate
	colAddress
	colShipper
	colProducts
	colQuantity
	colDiscount
	colNotes
)

// ParseSheet reads the first sheet of an xlsx workbook into rows. The product
// cell lists one or more names separated by commas; the quantity cell lists
// the matching quantities (a single number applies to all products).
func ParseSheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var out []Row
	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		if len(cells) == 0 || strings.TrimSpace(cell(cells, colCustomer)) == "" {
			continue
		}

		row := Row{
			Line:         i + 1,
			CustomerName: strings.TrimSpace(cell(cells, colCustomer)),
			Phone:        strings.TrimSpace(cell(cells, colPhone)),
			Governorate:  strings.TrimSpace(cell(cells, colGovernorate)),
			Address:      strings.TrimSpace(cell(cells, colAddress)),
			ShipperName:  strings.TrimSpace(cell(cells, colShipper)),
			Notes:        strings.TrimSpace(cell(cells, colNotes)),
		}

		names := splitList(cell(cells, colProducts))
		quantities := splitList(cell(cells, colQuantity))
		for j, name := range names {
			qty := 1
			switch {
			case j < len(quantities):
				qty, _ = strconv.Atoi(strings.TrimSpace(quantities[j]))
			case len(quantities) == 1:
				qty, _ = strconv.Atoi(strings.TrimSpace(quantities[0]))
			}
			row.Products = append(row.Products, RowProduct{Name: strings.TrimSpace(name), Quantity: qty})
		}
		if raw := strings.TrimSpace(cell(cells, colDiscount)); raw != "" {
			row.Discount, _ = strconv.ParseFloat(raw, 64)
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '،' || r == ';' })
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// OrderCreator is the slice of the order service the importer uses.
type OrderCreator interface {
	Create(ctx context.Context, input orders.CreateInput) (orders.Order, error)
}

type Importer struct {
	products products.Repository
	shippers shippers.Repository
	orders   OrderCreator
	logger   *slog.Logger
}

func NewImporter(productRepo products.Repository, shipperRepo shippers.Repository, orderCreator OrderCreator, logger *slog.Logger) *Importer {
	return &Importer{
		products: productRepo,
		shippers: shipperRepo,
		orders:   orderCreator,
		logger:   logger,
	}
}

// Import matches each row against the catalog and creates the orders that
// resolve cleanly. Rows that fail matching or validation are reported back
// with their line number and skipped; one bad row never aborts the batch.
// All created orders start under review, so no stock moves here.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	rows, err := ParseSheet(r)
	if err != nil {
		return ImportReport{}, err
	}

	productRows, err := imp.products.ListAll(ctx)
	if err != nil {
		return ImportReport{}, fmt.Errorf("load products: %w", err)
	}
	shipperRows, err := imp.shippers.ListAll(ctx)
	if err != nil {
		return ImportReport{}, fmt.Errorf("load shippers: %w", err)
	}

	productNames := make([]string, len(productRows))
	for i, p := range productRows {
		productNames[i] = p.Name
	}
	shipperNames := make([]string, len(shipperRows))
	for i, s := range shipperRows {
		shipperNames[i] = s.Name
	}

	report := ImportReport{}
	for _, row := range rows {
		result := RowResult{Line: row.Line}

		input, err := imp.resolve(row, productRows, productNames, shipperRows, shipperNames)
		if err == nil {
			var order orders.Order
			order, err = imp.orders.Create(ctx, input)
			if err == nil {
				result.OrderID = order.ID
			}
		}
		if err != nil {
			result.Error = err.Error()
			report.Failed++
		} else {
			report.Created++
		}
		report.Rows = append(report.Rows, result)
	}

	imp.logger.InfoContext(ctx, "bulk import finished",
		slog.Int("created", report.Created),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (imp *Importer) resolve(row Row, productRows []products.Product, productNames []string, shipperRows []shippers.Shipper, shipperNames []string) (orders.CreateInput, error) {
	if len(row.Products) == 0 {
		return orders.CreateInput{}, fmt.Errorf("no products listed")
	}

	shipperIdx, ok := matchName(shipperNames, row.ShipperName)
	if !ok {
		return orders.CreateInput{}, fmt.Errorf("no shipper matches %q", row.ShipperName)
	}
	shipper := shipperRows[shipperIdx]

	// Rate rows are matched loosely too: governorate spellings in sheets
	// rarely line up with the rate table exactly.
	governorate := row.Governorate
	rateNames := make([]string, len(shipper.Rates))
	for i, rate := range shipper.Rates {
		rateNames[i] = rate.Governorate
	}
	if idx, ok := matchName(rateNames, row.Governorate); ok {
		governorate = shipper.Rates[idx].Governorate
	}

	var items []orders.OrderItem
	for _, rp := range row.Products {
		idx, ok := matchName(productNames, rp.Name)
		if !ok {
			return orders.CreateInput{}, fmt.Errorf("no product matches %q", rp.Name)
		}
		if rp.Quantity <= 0 {
			return orders.CreateInput{}, fmt.Errorf("invalid quantity for %q", rp.Name)
		}
		items = append(items, orders.OrderItem{ProductID: productRows[idx].ID, Quantity: rp.Quantity})
	}

	return orders.CreateInput{
		CustomerName: row.CustomerName,
		Phone:        row.Phone,
		Governorate:  governorate,
		Address:      row.Address,
		ShipperID:    shipper.ID,
		Items:        items,
		Discount:     row.Discount,
		Notes:        row.Notes,
	}, nil
}
