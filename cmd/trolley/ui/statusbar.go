package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trolley/internal/cart"
)

// StatusBar is the persistent header: page tabs, session identity and the
// live cart badge. The badge always reflects the last confirmed cart.
type StatusBar struct {
	Username   string
	Projection cart.Projection
	Width      int
}

// CartBadge renders just the count/subtotal badge.
func (s StatusBar) CartBadge(styles Styles) string {
	if s.Projection.ItemCount == 0 {
		return styles.Muted.Render("Cart empty")
	}
	label := fmt.Sprintf("Cart %d · %s", s.Projection.ItemCount, Money(s.Projection.Subtotal))
	return styles.Badge.Render(label)
}

// View renders the full bar for the given active page.
func (s StatusBar) View(styles Styles, pages []string, active int) string {
	var tabs []string
	for i, name := range pages {
		if i == active {
			tabs = append(tabs, styles.Selected.Render(" "+name+" "))
		} else {
			tabs = append(tabs, styles.Muted.Render(" "+name+" "))
		}
	}
	left := strings.Join(tabs, "")

	who := "browsing as guest"
	if s.Username != "" {
		who = s.Username
	}
	right := styles.Muted.Render(who) + "  " + s.CartBadge(styles)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
