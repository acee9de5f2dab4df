package ui

import (
	"fmt"

	"trolley/internal/api"
	"trolley/internal/catalog"
)

// Money renders an amount the way the storefront shows prices.
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// PriceTag renders the price of a product, with the struck-through
// original price and a sale badge when discounted.
func PriceTag(styles Styles, p api.Product) string {
	tag := styles.Price.Render(Money(p.Price))
	if pct := catalog.DiscountPercent(p); pct > 0 {
		tag += " " + styles.OriginalPrice.Render(Money(p.OriginalPrice))
		tag += " " + styles.SaleBadge.Render(fmt.Sprintf("-%d%%", pct))
	}
	return tag
}

// StockTag renders the availability line for a product.
func StockTag(styles Styles, p api.Product) string {
	switch catalog.AvailabilityOf(p) {
	case catalog.OutOfStock:
		return styles.StockOut.Render("Out of stock")
	case catalog.LimitedStock:
		return styles.StockLow.Render(fmt.Sprintf("Only %d left", p.StockQuantity))
	default:
		return styles.StockOK.Render("In stock")
	}
}
