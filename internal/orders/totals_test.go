package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	items := []OrderItem{
		{ProductID: productA, Quantity: 3},
		{ProductID: productB, Quantity: 2},
	}
	pricing := Pricing{
		SellPrices:   map[string]float64{productA.String(): 250, productB.String(): 100},
		RatePrice:    65,
		RateDiscount: 15,
	}

	totals := ComputeTotals(items, 50, pricing)
	require.Equal(t, 950.0, totals.ProductTotal)
	// The carrier is owed the full rate; the discount only lowers the total.
	require.Equal(t, 65.0, totals.ShippingCost)
	require.Equal(t, 950.0, totals.TotalPrice)
}

func TestComputeTotalsMissingProductPricesAtZero(t *testing.T) {
	items := []OrderItem{
		{ProductID: productA, Quantity: 3},
		{ProductID: productB, Quantity: 2},
	}
	pricing := Pricing{
		SellPrices: map[string]float64{productA.String(): 100},
		RatePrice:  40,
	}

	totals := ComputeTotals(items, 0, pricing)
	require.Equal(t, 300.0, totals.ProductTotal)
	require.Equal(t, 340.0, totals.TotalPrice)
}

func TestComputeTotalsDiscountAboveRateNeverCredits(t *testing.T) {
	pricing := Pricing{
		SellPrices:   map[string]float64{productA.String(): 100},
		RatePrice:    30,
		RateDiscount: 45,
	}

	totals := ComputeTotals([]OrderItem{{ProductID: productA, Quantity: 1}}, 0, pricing)
	require.Equal(t, 30.0, totals.ShippingCost)
	require.Equal(t, 100.0, totals.TotalPrice)
}
