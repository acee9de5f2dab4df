package ui

import (
	"fmt"
	"strings"

	"trolley/internal/checkout"
)

// View composes the status bar, active page, sticky checkout bar and
// toast line.
func (a App) View() string {
	if a.booting {
		return "\n  " + a.spinner.View() + " opening the shop...\n"
	}

	var sb strings.Builder
	sb.WriteString(a.status.View(a.styles, pageTabs, a.tab) + "\n\n")

	width := a.width
	if width <= 0 {
		width = 80
	}
	height := a.height
	if height <= 0 {
		height = 24
	}

	switch a.page {
	case PageStorefront:
		sb.WriteString(a.storefront.View(a.styles, width, height, a.svc.Wishlist.Contains))
	case PageProduct:
		sb.WriteString(a.detailVP.View())
	case PageCart:
		sb.WriteString(a.cartPage.View(a.styles))
	case PageCheckout:
		sb.WriteString(a.checkout.View(a.styles, a.spinner.View()))
	case PageOrders:
		sb.WriteString(a.orders.View(a.styles, a.spinner.View()))
	case PageWishlist:
		sb.WriteString(a.wishlist.View(a.styles, a.spinner.View()))
	case PageLogin:
		sb.WriteString(a.login.View(a.styles, a.svc.Identity.Identity(), a.spinner.View()))
	}
	sb.WriteString("\n")

	if bar := a.stickyBar(); bar != "" {
		sb.WriteString("\n" + bar + "\n")
	}

	if toast := a.toast.View(a.styles); toast != "" {
		sb.WriteString("\n" + toast + "\n")
	}

	sb.WriteString("\n" + a.styles.Footer.Render("1-5 pages · q quits"))
	return sb.String()
}

// refreshDetail re-renders the product page into its viewport. Called on
// every content change and on the spinner cadence while the page is open.
func (a *App) refreshDetail() {
	width := a.detailVP.Width
	if width <= 0 {
		width = 78
	}
	inWishlist := a.svc.Wishlist.Contains(a.product.Product().ID)
	content := a.product.View(a.styles, width, inWishlist, a.svc.Insights.Enabled(), a.spinner.View())
	a.detailVP.SetContent(content)
}

// stickyBar shows the running total with the same checkout action as the
// cart page whenever the cart has items and an order flow could start or
// is in progress.
func (a App) stickyBar() string {
	if a.status.Projection.ItemCount == 0 {
		return ""
	}

	switch a.page {
	case PageCheckout:
		if a.svc.Checkout.State() == checkout.StateReadyToConfirm {
			return a.styles.StickyBar.Render(fmt.Sprintf(
				"Total %s · enter places the order", Money(a.svc.Checkout.Total())))
		}
		return ""
	case PageCart:
		return a.styles.StickyBar.Render(fmt.Sprintf(
			"%d items · %s · c checks out",
			a.status.Projection.ItemCount, Money(a.status.Projection.Subtotal)))
	case PageStorefront, PageWishlist, PageProduct:
		return a.styles.StickyBar.Render(fmt.Sprintf(
			"%d items · %s · 2 opens the cart",
			a.status.Projection.ItemCount, Money(a.status.Projection.Subtotal)))
	default:
		return ""
	}
}
