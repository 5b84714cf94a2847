package bulk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/catalog/shippers"
	"github.com/tajirhq/tajir/internal/orders"
)

var (
	walletID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	caseID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	shipperID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

type stubProducts struct{ rows []products.Product }

func (s *stubProducts) List(context.Context, products.ListFilters) ([]products.Product, int, error) {
	return s.rows, len(s.rows), nil
}
func (s *stubProducts) ListAll(context.Context) ([]products.Product, error) { return s.rows, nil }
func (s *stubProducts) Get(_ context.Context, id uuid.UUID) (products.Product, error) {
	for _, p := range s.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return products.Product{}, fmt.Errorf("not found")
}
func (s *stubProducts) Create(_ context.Context, p products.Product) (products.Product, error) {
	return p, nil
}
func (s *stubProducts) Update(context.Context, uuid.UUID, products.Product) error { return nil }
func (s *stubProducts) SetStock(context.Context, uuid.UUID, int) error            { return nil }
func (s *stubProducts) SoftDelete(context.Context, uuid.UUID) error               { return nil }

type stubShippers struct{ rows []shippers.Shipper }

func (s *stubShippers) ListAll(context.Context) ([]shippers.Shipper, error) { return s.rows, nil }
func (s *stubShippers) Get(_ context.Context, id uuid.UUID) (shippers.Shipper, error) {
	for _, sh := range s.rows {
		if sh.ID == id {
			return sh, nil
		}
	}
	return shippers.Shipper{}, fmt.Errorf("not found")
}
func (s *stubShippers) Create(_ context.Context, sh shippers.Shipper) (shippers.Shipper, error) {
	return sh, nil
}
func (s *stubShippers) Update(context.Context, uuid.UUID, shippers.Shipper) error { return nil }
func (s *stubShippers) SoftDelete(context.Context, uuid.UUID) error               { return nil }

type recordingCreator struct {
	inputs []orders.CreateInput
}

func (c *recordingCreator) Create(_ context.Context, input orders.CreateInput) (orders.Order, error) {
	c.inputs = append(c.inputs, input)
	return orders.Order{ID: uuid.New(), Status: orders.StatusUnderReview}, nil
}

func buildWorkbook(t *testing.T, rows [][]any) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{"Customer", "Phone", "Governorate", "Address", "Shipper", "Products", "Quantity", "Discount", "Notes"}
	for col, v := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return &buf
}

func newTestImporter(creator *recordingCreator) *Importer {
	productRepo := &stubProducts{rows: []products.Product{
		{ID: walletID, Name: "Leather Wallet", SellPrice: 250},
		{ID: caseID, Name: "Phone Case", SellPrice: 100},
	}}
	shipperRepo := &stubShippers{rows: []shippers.Shipper{{
		ID:   shipperID,
		Name: "Speed Express",
		Rates: []shippers.Rate{
			{Governorate: "Giza", Price: 65, Discount: 15},
			{Governorate: "Cairo", Price: 50},
		},
	}}}
	return NewImporter(productRepo, shipperRepo, creator,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestImportCreatesMatchedRows(t *testing.T) {
	creator := &recordingCreator{}
	imp := newTestImporter(creator)

	workbook := buildWorkbook(t, [][]any{
		{"Mona Hassan", "01000000000", "giza", "12 Haram St", "speed express", "leather wallet, phone case", "2, 1", 50, "call first"},
		{"Omar Said", "01111111111", "Cairo", "5 Nasr St", "Speed", "Wallet", 1, "", ""},
	})

	report, err := imp.Import(context.Background(), workbook)
	require.NoError(t, err)
	require.Equal(t, 2, report.Created)
	require.Zero(t, report.Failed)
	require.Len(t, creator.inputs, 2)

	first := creator.inputs[0]
	require.Equal(t, "Mona Hassan", first.CustomerName)
	require.Equal(t, shipperID, first.ShipperID)
	// Governorate is canonicalised to the rate table spelling.
	require.Equal(t, "Giza", first.Governorate)
	require.Equal(t, []orders.OrderItem{
		{ProductID: walletID, Quantity: 2},
		{ProductID: caseID, Quantity: 1},
	}, first.Items)
	require.Equal(t, 50.0, first.Discount)

	second := creator.inputs[1]
	require.Equal(t, []orders.OrderItem{{ProductID: walletID, Quantity: 1}}, second.Items)
}

func TestImportReportsBadRowsAndContinues(t *testing.T) {
	creator := &recordingCreator{}
	imp := newTestImporter(creator)

	workbook := buildWorkbook(t, [][]any{
		{"Mona Hassan", "01000000000", "Giza", "", "Speed Express", "no such product", 1, "", ""},
		{"Omar Said", "01111111111", "Cairo", "", "Unknown Carrier", "Phone Case", 1, "", ""},
		{"Huda Samir", "01222222222", "Giza", "", "Speed Express", "Phone Case", 3, "", ""},
	})

	report, err := imp.Import(context.Background(), workbook)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Equal(t, 2, report.Failed)
	require.Len(t, report.Rows, 3)

	require.Contains(t, report.Rows[0].Error, "no product matches")
	require.Contains(t, report.Rows[1].Error, "no shipper matches")
	require.Empty(t, report.Rows[2].Error)
	require.NotEqual(t, uuid.Nil, report.Rows[2].OrderID)
}

func TestExportRoundTrip(t *testing.T) {
	orderRows := []orders.Order{{
		ID:           uuid.New(),
		CustomerName: "Mona Hassan",
		Phone:        "01000000000",
		Governorate:  "Giza",
		Status:       orders.StatusShipped,
		TotalPrice:   600,
		Items: []orders.OrderItem{
			{ProductID: walletID, Quantity: 2},
		},
	}}
	productRows := []products.Product{{ID: walletID, Name: "Leather Wallet"}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, orderRows, productRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Customer", rows[0][0])
	require.Equal(t, "Mona Hassan", rows[1][0])
	require.Equal(t, "Leather Wallet", rows[1][4])
	require.Equal(t, "SHIPPED", rows[1][9])
}
