package orders

// Pricing inputs resolved from the catalog at computation time. The order
// stores the resulting snapshot, so later price or rate changes never rewrite
// historical orders.
type Pricing struct {
	// SellPrices maps product id (as string) to current sell price. Items
	// whose product is missing contribute zero.
	SellPrices map[string]float64

	// RatePrice and RateDiscount come from the shipper's rate entry for the
	// order's governorate. Both are zero when no exact match exists.
	RatePrice    float64
	RateDiscount float64
}

// Totals is the derived pricing snapshot of an order.
type Totals struct {
	ProductTotal float64
	ShippingCost float64
	TotalPrice   float64
}

// ComputeTotals derives the order's price fields from catalog pricing.
// ShippingCost is the full governorate rate, the amount owed to the carrier;
// the shipper's discount only reduces what the customer is charged, so it is
// applied inside the total (floored at zero so a discount above the rate
// never turns shipping into a credit).
func ComputeTotals(items []OrderItem, discount float64, pricing Pricing) Totals {
	productTotal := 0.0
	for _, item := range items {
		productTotal += pricing.SellPrices[item.ProductID.String()] * float64(item.Quantity)
	}
	netShipping := pricing.RatePrice - pricing.RateDiscount
	if netShipping < 0 {
		netShipping = 0
	}
	return Totals{
		ProductTotal: productTotal,
		ShippingCost: pricing.RatePrice,
		TotalPrice:   productTotal + netShipping - discount,
	}
}
