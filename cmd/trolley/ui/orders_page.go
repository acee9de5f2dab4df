package ui

import (
	"fmt"
	"strings"

	"trolley/internal/api"
	"trolley/internal/orders"
)

// OrdersPage lists order history with expandable lines and reorder.
type OrdersPage struct {
	orders   []api.Order
	cursor   int
	expanded map[int64]bool
	loading  bool
}

// NewOrdersPage creates the history page.
func NewOrdersPage() OrdersPage {
	return OrdersPage{expanded: map[int64]bool{}}
}

// SetOrders installs the loaded history.
func (p *OrdersPage) SetOrders(history []api.Order) {
	p.orders = history
	p.loading = false
	if p.cursor >= len(history) {
		p.cursor = len(history) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// MoveCursor shifts the selection.
func (p *OrdersPage) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.orders) {
		p.cursor = len(p.orders) - 1
	}
}

// Current returns the order under the cursor.
func (p *OrdersPage) Current() (api.Order, bool) {
	if p.cursor < 0 || p.cursor >= len(p.orders) {
		return api.Order{}, false
	}
	return p.orders[p.cursor], true
}

// ToggleExpand flips line visibility for the selected order.
func (p *OrdersPage) ToggleExpand() {
	if order, ok := p.Current(); ok {
		p.expanded[order.ID] = !p.expanded[order.ID]
	}
}

func statusStyle(styles Styles, status string) string {
	switch strings.ToUpper(status) {
	case orders.StatusDelivered:
		return styles.Success.Render(status)
	case orders.StatusCancelled:
		return styles.Error.Render(status)
	case orders.StatusShipped:
		return styles.Info.Render(status)
	default:
		return styles.Warning.Render(status)
	}
}

// View renders the history.
func (p OrdersPage) View(styles Styles, spinnerView string) string {
	if p.loading {
		return spinnerView + " loading orders..."
	}
	if len(p.orders) == 0 {
		return styles.Muted.Render("No orders yet.")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("My Orders") + "\n")

	for i, order := range p.orders {
		marker := "  "
		if i == p.cursor {
			marker = styles.Selected.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%sOrder #%d  %s  %s  %s\n",
			marker, order.ID,
			styles.Muted.Render(order.OrderDate),
			statusStyle(styles, order.Status),
			styles.Price.Render(Money(order.TotalAmount)),
		))

		if p.expanded[order.ID] {
			for _, item := range order.OrderItems {
				sb.WriteString(fmt.Sprintf("      %dx %s  %s\n",
					item.Quantity,
					styles.Body.Render(item.Product.Name),
					Money(orders.ItemTotal(item)),
				))
			}
			sb.WriteString(fmt.Sprintf("      %s %s · %s %s\n",
				styles.Muted.Render("subtotal"), Money(order.Subtotal),
				styles.Muted.Render("shipping"), Money(order.ShippingCost),
			))
		}
	}

	sb.WriteString("\n" + styles.Muted.Render("enter expands · r reorders a delivered order"))
	return sb.String()
}
