package ui

import (
	"strings"
	"testing"

	"trolley/internal/api"
	"trolley/internal/cart"
)

func testStyles() Styles {
	return NewStyles(LightTheme())
}

func sampleProducts() []api.Product {
	return []api.Product{
		{ID: 1, Name: "Kettle", Category: "Kitchen", Price: 25, StockQuantity: 40},
		{ID: 2, Name: "Mug", Category: "Kitchen", Price: 6, StockQuantity: 3},
		{ID: 3, Name: "Desk Lamp", Category: "Office", Price: 30, StockQuantity: 0},
	}
}

func TestStorefrontFilterAndCursor(t *testing.T) {
	page := NewStorefrontPage()
	page.SetProducts(sampleProducts())

	if _, ok := page.Current(); !ok {
		t.Fatalf("expected a selection after SetProducts")
	}

	page.MoveCursor(1)
	page.MoveCursor(1)
	page.MoveCursor(1) // clamped
	product, _ := page.Current()
	if product.Name != "Desk Lamp" {
		t.Fatalf("cursor landed on %q, want Desk Lamp", product.Name)
	}

	// Category cycling narrows the list and clamps the cursor.
	page.NextCategory()
	product, ok := page.Current()
	if !ok {
		t.Fatalf("expected a selection after category switch")
	}
	if product.Category == "" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestStorefrontViewShowsStockStates(t *testing.T) {
	page := NewStorefrontPage()
	page.SetProducts(sampleProducts())

	view := page.View(testStyles(), 80, 24, nil)
	if !strings.Contains(view, "In stock") {
		t.Fatalf("expected an in-stock product")
	}
	if !strings.Contains(view, "Only 3 left") {
		t.Fatalf("expected a limited-stock nudge")
	}
	if !strings.Contains(view, "Out of stock") {
		t.Fatalf("expected an out-of-stock product")
	}
}

func TestCartPageViewTotals(t *testing.T) {
	page := NewCartPage()
	page.SetSnapshot(cart.Snapshot{Lines: map[int64]cart.Line{
		5: {ProductID: 5, Name: "Kettle", UnitPrice: 10, Quantity: 2},
		9: {ProductID: 9, Name: "Mug", UnitPrice: 4, Quantity: 2},
	}})

	view := page.View(testStyles())
	if !strings.Contains(view, "Kettle") || !strings.Contains(view, "Mug") {
		t.Fatalf("expected both lines rendered")
	}
	if !strings.Contains(view, "$20.00") {
		t.Fatalf("expected per-line total for 2x Kettle")
	}
	if !strings.Contains(view, "Subtotal (4 items): $28.00") {
		t.Fatalf("expected subtotal line, got:\n%s", view)
	}
}

func TestCartPageEmptyState(t *testing.T) {
	page := NewCartPage()
	page.SetSnapshot(cart.EmptySnapshot())
	if !strings.Contains(page.View(testStyles()), "cart is empty") {
		t.Fatalf("expected the empty-cart prompt")
	}
}

func TestCartPageCursorFollowsShrinkingCart(t *testing.T) {
	page := NewCartPage()
	page.SetSnapshot(cart.Snapshot{Lines: map[int64]cart.Line{
		1: {ProductID: 1, Name: "A", UnitPrice: 1, Quantity: 1},
		2: {ProductID: 2, Name: "B", UnitPrice: 1, Quantity: 1},
	}})
	page.MoveCursor(1)

	// The selected line disappears from the confirmed cart.
	page.SetSnapshot(cart.Snapshot{Lines: map[int64]cart.Line{
		1: {ProductID: 1, Name: "A", UnitPrice: 1, Quantity: 1},
	}})
	line, ok := page.Current()
	if !ok || line.Name != "A" {
		t.Fatalf("cursor did not clamp to the remaining line")
	}
}

func TestOrdersPageExpand(t *testing.T) {
	page := NewOrdersPage()
	page.SetOrders([]api.Order{
		{
			ID: 41, OrderDate: "2026-08-01", Status: "DELIVERED", TotalAmount: 28,
			Subtotal: 20, ShippingCost: 8,
			OrderItems: []api.OrderItem{
				{Product: api.Product{Name: "Kettle"}, Quantity: 2, PriceAtPurchase: 10},
			},
		},
	})

	view := page.View(testStyles(), "")
	if strings.Contains(view, "Kettle") {
		t.Fatalf("lines should be collapsed by default")
	}

	page.ToggleExpand()
	view = page.View(testStyles(), "")
	if !strings.Contains(view, "Kettle") || !strings.Contains(view, "$20.00") {
		t.Fatalf("expected expanded lines with totals, got:\n%s", view)
	}
}

func TestWishlistPageView(t *testing.T) {
	page := NewWishlistPage()
	page.SetEntries([]api.WishlistEntry{
		{ID: 1, Product: api.Product{ID: 10, Name: "Kettle", Price: 25, StockQuantity: 5}},
	})

	view := page.View(testStyles(), "")
	if !strings.Contains(view, "Wishlist (1)") || !strings.Contains(view, "Kettle") {
		t.Fatalf("expected the saved product, got:\n%s", view)
	}

	product, ok := page.Current()
	if !ok || product.ID != 10 {
		t.Fatalf("expected product 10 under the cursor")
	}
}

func TestLoginPageFieldCycle(t *testing.T) {
	page := NewLoginPage()

	// Sign-in mode skips the email field.
	page.NextField()
	if page.focus != fieldPassword {
		t.Fatalf("expected password focus, got %d", page.focus)
	}
	page.NextField()
	if page.focus != fieldUsername {
		t.Fatalf("expected wrap to username, got %d", page.focus)
	}

	page.SetRegisterMode(true)
	page.NextField()
	if page.focus != fieldEmail {
		t.Fatalf("register mode must include email, got %d", page.focus)
	}
}

func TestLoginPageSignedInView(t *testing.T) {
	page := NewLoginPage()
	view := page.View(testStyles(), &api.Identity{Username: "maria", Role: "ROLE_USER"}, "")
	if !strings.Contains(view, "maria") || !strings.Contains(view, "logs out") {
		t.Fatalf("expected the account summary, got:\n%s", view)
	}
}

func TestStatusBarBadge(t *testing.T) {
	styles := testStyles()

	empty := StatusBar{Width: 80}
	if !strings.Contains(empty.CartBadge(styles), "Cart empty") {
		t.Fatalf("expected the empty badge")
	}

	bar := StatusBar{Width: 80, Username: "maria", Projection: cart.Projection{ItemCount: 4, Subtotal: 28}}
	badge := bar.CartBadge(styles)
	if !strings.Contains(badge, "4") || !strings.Contains(badge, "$28.00") {
		t.Fatalf("badge missing count or subtotal: %q", badge)
	}

	view := bar.View(styles, pageTabs, 0)
	if !strings.Contains(view, "maria") {
		t.Fatalf("expected the username in the bar")
	}
}

func TestSimpleTableAlignment(t *testing.T) {
	table := NewSimpleTable("Your Cart", []string{"Item", "Qty"})
	if table.View(testStyles()) != "" {
		t.Fatalf("empty table must render nothing")
	}

	table.AddRow("Kettle", "2")
	view := table.View(testStyles())
	if !strings.Contains(view, "Your Cart") || !strings.Contains(view, "Kettle") {
		t.Fatalf("expected title and row, got:\n%s", view)
	}
}
