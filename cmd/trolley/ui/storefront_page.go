package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"trolley/internal/api"
	"trolley/internal/catalog"
)

// StorefrontPage is the product listing: search, category filter, cursor.
type StorefrontPage struct {
	products   []api.Product
	filtered   []api.Product
	categories []string
	category   int
	cursor     int

	search        textinput.Model
	searchFocused bool
}

// NewStorefrontPage creates the listing page.
func NewStorefrontPage() StorefrontPage {
	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.CharLimit = 60
	ti.Width = 32

	return StorefrontPage{
		search:     ti,
		categories: []string{catalog.AllCategories},
	}
}

// SetProducts replaces the catalog and re-derives categories and filter.
func (p *StorefrontPage) SetProducts(products []api.Product) {
	p.products = products
	p.categories = catalog.Categories(products)
	if p.category >= len(p.categories) {
		p.category = 0
	}
	p.refilter()
}

// refilter applies current category and query; clamps the cursor.
func (p *StorefrontPage) refilter() {
	p.filtered = catalog.Filter(p.products, p.categories[p.category], p.search.Value())
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// NextCategory cycles the category filter.
func (p *StorefrontPage) NextCategory() {
	p.category = (p.category + 1) % len(p.categories)
	p.refilter()
}

// MoveCursor shifts the selection by delta, clamped to the list.
func (p *StorefrontPage) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
}

// Current returns the product under the cursor.
func (p *StorefrontPage) Current() (api.Product, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return api.Product{}, false
	}
	return p.filtered[p.cursor], true
}

// View renders the listing.
func (p StorefrontPage) View(styles Styles, width, height int, inWishlist func(int64) bool) string {
	var sb strings.Builder

	// Filter row
	cat := p.categories[p.category]
	sb.WriteString(styles.Subtitle.Render("Category: ") + styles.Bold.Render(cat))
	sb.WriteString("   ")
	if p.searchFocused {
		sb.WriteString(p.search.View())
	} else if q := p.search.Value(); q != "" {
		sb.WriteString(styles.Subtitle.Render("Search: ") + styles.Bold.Render(q))
	} else {
		sb.WriteString(styles.Muted.Render("/ to search"))
	}
	sb.WriteString("\n\n")

	if len(p.filtered) == 0 {
		sb.WriteString(styles.Muted.Render("No products match."))
		return sb.String()
	}

	visible := height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := start + visible
	if end > len(p.filtered) {
		end = len(p.filtered)
	}

	for i := start; i < end; i++ {
		product := p.filtered[i]
		marker := "  "
		if i == p.cursor {
			marker = styles.Selected.Render("> ")
		}
		heart := " "
		if inWishlist != nil && inWishlist(product.ID) {
			heart = styles.Error.Render("♥")
		}
		line := fmt.Sprintf("%s%s %s  %s  %s",
			marker,
			heart,
			styles.Body.Render(padRight(product.Name, 32)),
			PriceTag(styles, product),
			StockTag(styles, product),
		)
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + styles.Footer.Render(fmt.Sprintf("%d of %d products", p.cursor+1, len(p.filtered))))
	return sb.String()
}

func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
