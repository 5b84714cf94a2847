package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/orders"
)

var (
	walletID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	caseID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func testProducts() []products.Product {
	return []products.Product{
		{ID: walletID, Name: "Leather Wallet", PurchasePrice: 120, SellPrice: 250},
		{ID: caseID, Name: "Phone Case", PurchasePrice: 40, SellPrice: 100},
	}
}

func requireDecimal(t *testing.T, expected float64, got decimal.Decimal, name string) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromFloat(expected)),
		"%s: expected %v, got %s", name, expected, got)
}

func TestComputeSummary(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	returned := 2
	delivered := 1
	orderRows := []orders.Order{
		{
			Status:       orders.StatusDelivered,
			TotalPrice:   600,
			ShippingCost: 50,
			Items:        []orders.OrderItem{{ProductID: walletID, Quantity: 2}},
		},
		{
			Status:            orders.StatusPartiallyDelivered,
			TotalPrice:        300,
			ShippingCost:      40,
			ReturnCost:        25,
			DeliveredQuantity: &delivered,
			ReturnedQuantity:  &returned,
			Items:             []orders.OrderItem{{ProductID: caseID, Quantity: 3, ReturnedQuantity: 2}},
		},
		{
			Status:     orders.StatusCanceled,
			TotalPrice: 500,
			ReturnCost: 30,
		},
		{
			Status:     orders.StatusUnderReview,
			TotalPrice: 200,
		},
	}
	expenseRows := []expenses.Expense{
		{Category: "ads", Amount: 150},
		{Category: "packaging", Amount: 50},
		{Category: "مرتجع شحن - legacy", Amount: 999},
	}

	s := Compute(from, to, orderRows, testProducts(), expenseRows)

	requireDecimal(t, 900, s.Revenue, "revenue")                // 600 + 300
	requireDecimal(t, 280, s.COGS, "cogs")                      // 2*120 + 1*40
	requireDecimal(t, 620, s.GrossProfit, "gross profit")       // 900 - 280
	requireDecimal(t, 55, s.ReturnFees, "return fees")          // 25 + 30
	requireDecimal(t, 90, s.ShippingPaid, "shipping paid")      // 50 + 40
	requireDecimal(t, 200, s.GeneralExpenses, "expenses")       // legacy row excluded
	requireDecimal(t, 275, s.NetProfit, "net profit")           // 620 - 55 - 90 - 200
	requireDecimal(t, 320, s.ProductProfit, "product profit")   // (2*250+1*100) - 280

	require.Equal(t, 3, s.UnitsSold)
	require.Equal(t, 4, s.TotalOrders)
	require.Equal(t, 1, s.OrderCounts[orders.StatusDelivered])
	require.Equal(t, 1, s.OrderCounts[orders.StatusPartiallyDelivered])
	require.Equal(t, 1, s.OrderCounts[orders.StatusCanceled])
	require.Equal(t, 1, s.OrderCounts[orders.StatusUnderReview])
}

func TestComputeMissingProductCostsZero(t *testing.T) {
	orderRows := []orders.Order{{
		Status:     orders.StatusDelivered,
		TotalPrice: 250,
		Items:      []orders.OrderItem{{ProductID: uuid.New(), Quantity: 2}},
	}}

	s := Compute(time.Now().Add(-time.Hour), time.Now(), orderRows, testProducts(), nil)
	requireDecimal(t, 250, s.Revenue, "revenue")
	requireDecimal(t, 0, s.COGS, "cogs")
	require.Equal(t, 2, s.UnitsSold)
}

func TestIsReturnTagged(t *testing.T) {
	require.True(t, isReturnTagged("مرتجع شحن"))
	require.True(t, isReturnTagged("Return Fee - March"))
	require.False(t, isReturnTagged("ads"))
	require.False(t, isReturnTagged("returns department salary")) // no "return fee" phrase
}
