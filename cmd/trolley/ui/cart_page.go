package ui

import (
	"fmt"
	"sort"
	"strings"

	"trolley/internal/cart"
)

// CartPage shows the last confirmed cart with quantity controls.
type CartPage struct {
	snapshot cart.Snapshot
	order    []int64 // stable line ordering by product ID
	cursor   int
	busy     bool // a mutation is in flight
}

// NewCartPage creates the cart page.
func NewCartPage() CartPage {
	return CartPage{}
}

// SetSnapshot replaces the displayed cart.
func (p *CartPage) SetSnapshot(s cart.Snapshot) {
	p.snapshot = s
	p.order = p.order[:0]
	for id := range s.Lines {
		p.order = append(p.order, id)
	}
	sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
	if p.cursor >= len(p.order) {
		p.cursor = len(p.order) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// MoveCursor shifts the selection.
func (p *CartPage) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.order) {
		p.cursor = len(p.order) - 1
	}
}

// Current returns the line under the cursor.
func (p *CartPage) Current() (cart.Line, bool) {
	if p.cursor < 0 || p.cursor >= len(p.order) {
		return cart.Line{}, false
	}
	line, ok := p.snapshot.Lines[p.order[p.cursor]]
	return line, ok
}

// View renders the cart table and per-line totals.
func (p CartPage) View(styles Styles) string {
	if p.snapshot.IsEmpty() {
		return styles.Muted.Render("Your cart is empty. Browse the shop and press a to add items.")
	}

	table := NewSimpleTable("Your Cart", []string{"", "Item", "Price", "Qty", "Total"})
	for i, id := range p.order {
		line := p.snapshot.Lines[id]
		marker := " "
		if i == p.cursor {
			marker = ">"
		}
		table.AddRow(
			marker,
			line.Name,
			Money(line.UnitPrice),
			fmt.Sprintf("%d", line.Quantity),
			Money(line.UnitPrice*float64(line.Quantity)),
		)
	}

	var sb strings.Builder
	sb.WriteString(table.View(styles))

	projection := cart.Project(p.snapshot)
	sb.WriteString("\n" + styles.Bold.Render(fmt.Sprintf("Subtotal (%d items): %s",
		projection.ItemCount, Money(projection.Subtotal))))
	if p.busy {
		sb.WriteString("  " + styles.Muted.Render("updating..."))
	}
	sb.WriteString("\n\n" + styles.Muted.Render("+/- adjust quantity · x remove line · C clear cart"))
	return sb.String()
}
