package ui

import (
	"fmt"
	"strings"

	"trolley/internal/api"
)

// WishlistPage lists saved products.
type WishlistPage struct {
	entries []api.WishlistEntry
	cursor  int
	loading bool
}

// NewWishlistPage creates the wishlist page.
func NewWishlistPage() WishlistPage {
	return WishlistPage{}
}

// SetEntries installs the loaded wishlist.
func (p *WishlistPage) SetEntries(entries []api.WishlistEntry) {
	p.entries = entries
	p.loading = false
	if p.cursor >= len(entries) {
		p.cursor = len(entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// MoveCursor shifts the selection.
func (p *WishlistPage) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
}

// Current returns the product under the cursor.
func (p *WishlistPage) Current() (api.Product, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return api.Product{}, false
	}
	return p.entries[p.cursor].Product, true
}

// View renders the saved list.
func (p WishlistPage) View(styles Styles, spinnerView string) string {
	if p.loading {
		return spinnerView + " loading wishlist..."
	}
	if len(p.entries) == 0 {
		return styles.Muted.Render("Nothing saved yet. Press w on a product to save it.")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("Wishlist (%d)", len(p.entries))) + "\n")

	for i, entry := range p.entries {
		marker := "  "
		if i == p.cursor {
			marker = styles.Selected.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker,
			styles.Body.Render(padRight(entry.Product.Name, 32)),
			PriceTag(styles, entry.Product),
			StockTag(styles, entry.Product),
		))
	}

	sb.WriteString("\n" + styles.Muted.Render("enter views · a adds to cart · x removes"))
	return sb.String()
}
