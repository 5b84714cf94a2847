// Package finance computes the read-side financial summary: revenue, cost of
// goods sold, fees and profit over a period. All money arithmetic runs on
// decimals; floats only appear at the storage boundary.
package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/orders"
)

// Summary is the financial roll-up for one period.
type Summary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Revenue         decimal.Decimal `json:"revenue"`
	COGS            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	ReturnFees      decimal.Decimal `json:"return_fees"`
	ShippingPaid    decimal.Decimal `json:"shipping_paid"`
	GeneralExpenses decimal.Decimal `json:"general_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	ProductProfit   decimal.Decimal `json:"product_profit"`

	UnitsSold   int                   `json:"units_sold"`
	OrderCounts map[orders.Status]int `json:"order_counts"`
	TotalOrders int                   `json:"total_orders"`
}

// Return-shipping fees used to be tracked as tagged expense rows before the
// order carried its own return cost. Those legacy rows stay excluded from
// general expenses so they are never counted twice.
const legacyReturnTag = "مرتجع شحن"

func isReturnTagged(category string) bool {
	return strings.Contains(category, legacyReturnTag) ||
		strings.Contains(strings.ToLower(category), "return fee")
}

// deliveredUnits is the number of units of an item that stayed with the
// customer for an order in a revenue-bearing status.
func deliveredUnits(order orders.Order, item orders.OrderItem) int {
	if order.Status == orders.StatusPartiallyDelivered {
		return item.Quantity - item.ReturnedQuantity
	}
	return item.Quantity
}

// Compute rolls the period's orders, products and expenses into a Summary.
//
// Revenue counts DELIVERED and PARTIALLY_DELIVERED orders at their stored
// total price. COGS prices delivered units at the product's current purchase
// price; units of products meanwhile removed from the catalog cost zero.
// Return fees sum the return cost across every order in the period, whatever
// its current status.
func Compute(from, to time.Time, orderRows []orders.Order, productRows []products.Product, expenseRows []expenses.Expense) Summary {
	purchasePrices := make(map[string]decimal.Decimal, len(productRows))
	sellPrices := make(map[string]decimal.Decimal, len(productRows))
	for _, p := range productRows {
		purchasePrices[p.ID.String()] = decimal.NewFromFloat(p.PurchasePrice)
		sellPrices[p.ID.String()] = decimal.NewFromFloat(p.SellPrice)
	}

	summary := Summary{
		From:        from,
		To:          to,
		OrderCounts: make(map[orders.Status]int),
	}
	revenue := decimal.Zero
	cogs := decimal.Zero
	productRevenue := decimal.Zero
	returnFees := decimal.Zero
	shippingPaid := decimal.Zero

	for _, order := range orderRows {
		summary.OrderCounts[order.Status]++
		summary.TotalOrders++
		returnFees = returnFees.Add(decimal.NewFromFloat(order.ReturnCost))

		if order.Status != orders.StatusDelivered && order.Status != orders.StatusPartiallyDelivered {
			continue
		}

		revenue = revenue.Add(decimal.NewFromFloat(order.TotalPrice))
		shippingPaid = shippingPaid.Add(decimal.NewFromFloat(order.ShippingCost))
		for _, item := range order.Items {
			units := deliveredUnits(order, item)
			if units <= 0 {
				continue
			}
			summary.UnitsSold += units
			qty := decimal.NewFromInt(int64(units))
			cogs = cogs.Add(purchasePrices[item.ProductID.String()].Mul(qty))
			productRevenue = productRevenue.Add(sellPrices[item.ProductID.String()].Mul(qty))
		}
	}

	generalExpenses := decimal.Zero
	for _, e := range expenseRows {
		if isReturnTagged(e.Category) {
			continue
		}
		generalExpenses = generalExpenses.Add(decimal.NewFromFloat(e.Amount))
	}

	summary.Revenue = revenue
	summary.COGS = cogs
	summary.GrossProfit = revenue.Sub(cogs)
	summary.ReturnFees = returnFees
	summary.ShippingPaid = shippingPaid
	summary.GeneralExpenses = generalExpenses
	summary.NetProfit = summary.GrossProfit.Sub(returnFees).Sub(shippingPaid).Sub(generalExpenses)
	summary.ProductProfit = productRevenue.Sub(cogs)
	return summary
}
