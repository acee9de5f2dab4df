package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/api"
	"trolley/internal/reviews"
)

// handleKey routes keys, giving focused text inputs first claim on
// printable characters.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	if a.booting {
		return a, nil
	}

	// Typing contexts swallow printable keys.
	if a.page == PageStorefront && a.storefront.searchFocused {
		return a.handleSearchKey(msg)
	}
	if a.page == PageProduct && a.product.composing {
		return a.handleComposeKey(msg)
	}
	if a.page == PageLogin && a.status.Username == "" {
		return a.handleLoginKey(msg)
	}

	// Tab strip
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "1", "2", "3", "4", "5":
		return a.switchTab(int(msg.String()[0] - '1'))
	}

	switch a.page {
	case PageStorefront:
		return a.handleStorefrontKey(msg)
	case PageProduct:
		return a.handleProductKey(msg)
	case PageCart:
		return a.handleCartKey(msg)
	case PageCheckout:
		return a.handleCheckoutKey(msg)
	case PageOrders:
		return a.handleOrdersKey(msg)
	case PageWishlist:
		return a.handleWishlistKey(msg)
	case PageLogin:
		if msg.String() == "L" {
			return a, a.logoutCmd()
		}
	}
	return a, nil
}

// switchTab activates a tab and kicks off its page load.
func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	if tab < 0 || tab >= len(tabPage) {
		return a, nil
	}
	a.tab = tab
	a.page = tabPage[tab]

	switch a.page {
	case PageCart:
		a.cartPage.SetSnapshot(a.svc.Cart.Snapshot())
	case PageOrders:
		a.orders.loading = true
		return a, a.loadOrdersCmd()
	case PageWishlist:
		a.wishlist.loading = true
		return a, a.loadWishlistCmd()
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.storefront.searchFocused = false
		a.storefront.search.Blur()
		a.storefront.search.SetValue("")
		a.storefront.refilter()
		return a, nil
	case tea.KeyEnter:
		a.storefront.searchFocused = false
		a.storefront.search.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.storefront.search, cmd = a.storefront.search.Update(msg)
	a.storefront.refilter()
	return a, cmd
}

func (a App) handleStorefrontKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.storefront.MoveCursor(-1)
	case "down", "j":
		a.storefront.MoveCursor(1)
	case "/":
		a.storefront.searchFocused = true
		return a, a.storefront.search.Focus()
	case "c":
		a.storefront.NextCategory()
	case "enter":
		if product, ok := a.storefront.Current(); ok {
			return a.openProduct(product)
		}
	case "a":
		if product, ok := a.storefront.Current(); ok {
			a.cartPage.busy = true
			return a, a.mutateCmd(product, +1)
		}
	case "w":
		if product, ok := a.storefront.Current(); ok {
			return a, a.toggleWishlistCmd(product.ID)
		}
	}
	return a, nil
}

// openProduct switches to the detail page and loads its reviews.
func (a App) openProduct(product api.Product) (tea.Model, tea.Cmd) {
	a.product.Show(product)
	a.page = PageProduct
	a.detailVP.GotoTop()
	a.refreshDetail()
	return a, a.loadReviewsCmd(product.ID)
}

func (a App) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	product := a.product.Product()
	switch msg.String() {
	case "esc":
		a.page = tabPage[a.tab]
		return a, nil
	case "a":
		a.cartPage.busy = true
		return a, a.mutateCmd(product, +1)
	case "w":
		return a, a.toggleWishlistCmd(product.ID)
	case "i":
		if a.svc.Insights.Enabled() && a.product.insight == "" && !a.product.loadingInsight {
			a.product.loadingInsight = true
			var stats api.ReviewStats
			if a.product.summary != nil {
				stats = a.product.summary.Stats
			}
			return a, a.loadInsightCmd(product, stats)
		}
	case "r":
		if a.product.summary != nil && a.product.summary.CanReview {
			a.product.composing = true
			a.refreshDetail()
			return a, a.product.comment.Focus()
		}
	}

	// Everything else scrolls the detail viewport.
	var cmd tea.Cmd
	a.detailVP, cmd = a.detailVP.Update(msg)
	return a, cmd
}

func (a App) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.product.composing = false
		a.product.comment.Blur()
		a.refreshDetail()
		return a, nil
	case tea.KeyUp:
		if a.product.rating < reviews.MaxRating {
			a.product.rating++
		}
		a.refreshDetail()
		return a, nil
	case tea.KeyDown:
		if a.product.rating > 1 {
			a.product.rating--
		}
		a.refreshDetail()
		return a, nil
	case tea.KeyEnter:
		a.product.comment.Blur()
		return a, a.submitReviewCmd(a.product.Product().ID, a.product.rating, a.product.comment.Value())
	}
	var cmd tea.Cmd
	a.product.comment, cmd = a.product.comment.Update(msg)
	a.refreshDetail()
	return a, cmd
}

func (a App) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.cartPage.MoveCursor(-1)
	case "down", "j":
		a.cartPage.MoveCursor(1)
	case "+", "=":
		if line, ok := a.cartPage.Current(); ok {
			a.cartPage.busy = true
			return a, a.mutateCmd(line.Product(), +1)
		}
	case "-":
		if line, ok := a.cartPage.Current(); ok {
			a.cartPage.busy = true
			return a, a.mutateCmd(line.Product(), -1)
		}
	case "x":
		if line, ok := a.cartPage.Current(); ok {
			a.cartPage.busy = true
			return a, a.mutateCmd(line.Product(), -line.Quantity)
		}
	case "C":
		return a, tea.Batch(a.clearCartCmd(), a.toast.Show(ToastInfo, "Cart cleared"))
	case "c", "enter":
		return a, a.beginCheckoutCmd()
	}
	return a, nil
}

func (a App) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.checkout.MoveCursor(-1)
	case "down", "j":
		a.checkout.MoveCursor(1)
	case "enter":
		return a, a.submitOrderCmd()
	case "esc":
		a.svc.Checkout.Cancel()
		a.page = PageCart
		a.tab = 1
		return a, nil
	}
	return a, nil
}

func (a App) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.orders.MoveCursor(-1)
	case "down", "j":
		a.orders.MoveCursor(1)
	case "enter":
		a.orders.ToggleExpand()
	case "r":
		if order, ok := a.orders.Current(); ok {
			return a, a.reorderCmd(order)
		}
	}
	return a, nil
}

func (a App) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.wishlist.MoveCursor(-1)
	case "down", "j":
		a.wishlist.MoveCursor(1)
	case "enter":
		if product, ok := a.wishlist.Current(); ok {
			return a.openProduct(product)
		}
	case "a":
		if product, ok := a.wishlist.Current(); ok {
			a.cartPage.busy = true
			return a, a.mutateCmd(product, +1)
		}
	case "x":
		if product, ok := a.wishlist.Current(); ok {
			return a, a.removeWishlistCmd(product.ID)
		}
	}
	return a, nil
}

func (a App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		a.login.NextField()
		return a, nil
	case tea.KeyCtrlR:
		a.login.SetRegisterMode(!a.login.registerMode)
		return a, nil
	case tea.KeyEnter:
		username, email, password := a.login.Values()
		if username == "" || password == "" {
			return a, a.toast.Show(ToastWarning, "Username and password are required")
		}
		a.login.busy = true
		if a.login.registerMode {
			return a, a.registerCmd(username, email, password)
		}
		return a, a.loginCmd(username, password)
	}
	return a, a.login.UpdateInputs(msg)
}
