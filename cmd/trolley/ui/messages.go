package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/api"
	"trolley/internal/cart"
	"trolley/internal/checkout"
	"trolley/internal/reviews"
)

// Messages produced by commands. Every network call runs off the update
// loop and reports back through one of these.

type bootDoneMsg struct {
	identity *api.Identity
	products []api.Product
	err      error
}

type cartChangedMsg struct {
	snapshot cart.Snapshot
}

type themeChangedMsg struct {
	theme Theme
}

type productsLoadedMsg struct {
	products []api.Product
	err      error
}

type mutationDoneMsg struct {
	productName string
	delta       int
	err         error
}

type reviewsLoadedMsg struct {
	productID int64
	summary   *reviews.Summary
	err       error
}

type insightMsg struct {
	productID int64
	text      string
	err       error
}

type checkoutBegunMsg struct {
	err error
}

type orderPlacedMsg struct {
	order *api.Order
	err   error
}

type ordersLoadedMsg struct {
	orders []api.Order
	err    error
}

type reorderDoneMsg struct {
	orderID int64
	err     error
}

type wishlistLoadedMsg struct {
	entries []api.WishlistEntry
	err     error
}

type wishlistToggledMsg struct {
	productID int64
	result    *api.WishlistToggle
	err       error
}

type authDoneMsg struct {
	identity *api.Identity
	register bool
	err      error
}

type loggedOutMsg struct {
	err error
}

type reviewSubmittedMsg struct {
	productID int64
	err       error
}

// Commands

func (a App) loadProductsCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		products, err := svc.Catalog.Products(context.Background())
		return productsLoadedMsg{products: products, err: err}
	}
}

func (a App) mutateCmd(p api.Product, delta int) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if svc.Identity.Identity() != nil {
			_, err = svc.Cart.Mutate(ctx, p.ID, delta)
		} else {
			_, err = svc.Cart.MutateLocal(p, delta)
		}
		return mutationDoneMsg{productName: p.Name, delta: delta, err: err}
	}
}

func (a App) loadReviewsCmd(productID int64) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		summary, err := svc.Reviews.Summarize(context.Background(), productID)
		return reviewsLoadedMsg{productID: productID, summary: summary, err: err}
	}
}

func (a App) loadInsightCmd(p api.Product, stats api.ReviewStats) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		text, err := svc.Insights.For(context.Background(), p, stats)
		return insightMsg{productID: p.ID, text: text, err: err}
	}
}

func (a App) beginCheckoutCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		_, err := svc.Checkout.Begin(context.Background())
		return checkoutBegunMsg{err: err}
	}
}

func (a App) submitOrderCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		order, err := svc.Checkout.Submit(context.Background())
		return orderPlacedMsg{order: order, err: err}
	}
}

func (a App) loadOrdersCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		history, err := svc.Orders.History(context.Background())
		return ordersLoadedMsg{orders: history, err: err}
	}
}

func (a App) reorderCmd(order api.Order) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		return reorderDoneMsg{orderID: order.ID, err: svc.Orders.Reorder(context.Background(), order)}
	}
}

func (a App) loadWishlistCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		entries, err := svc.Wishlist.Load(context.Background())
		return wishlistLoadedMsg{entries: entries, err: err}
	}
}

func (a App) toggleWishlistCmd(productID int64) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		result, err := svc.Wishlist.Toggle(context.Background(), productID)
		return wishlistToggledMsg{productID: productID, result: result, err: err}
	}
}

func (a App) removeWishlistCmd(productID int64) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.Wishlist.Remove(ctx, productID); err != nil {
			return wishlistLoadedMsg{err: err}
		}
		entries, err := svc.Wishlist.Load(ctx)
		return wishlistLoadedMsg{entries: entries, err: err}
	}
}

func (a App) clearCartCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		svc.Cart.Clear(context.Background())
		return nil
	}
}

func (a App) loginCmd(username, password string) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		ctx := context.Background()
		identity, err := svc.Probe.Login(ctx, username, password)
		if err != nil {
			return authDoneMsg{err: err}
		}
		// The anonymous browsing cart never merges into the account cart.
		svc.Cart.ClearFallback()
		svc.Cart.Load(ctx)
		svc.Wishlist.Load(ctx)
		return authDoneMsg{identity: identity}
	}
}

func (a App) registerCmd(username, email, password string) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.Client.Register(ctx, username, email, password); err != nil {
			return authDoneMsg{register: true, err: err}
		}
		identity, err := svc.Probe.Login(ctx, username, password)
		if err != nil {
			return authDoneMsg{register: true, err: err}
		}
		svc.Cart.ClearFallback()
		svc.Cart.Load(ctx)
		return authDoneMsg{identity: identity, register: true}
	}
}

func (a App) logoutCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		err := svc.Probe.Logout(context.Background())
		svc.Cart.Drop()
		svc.Wishlist.Reset()
		return loggedOutMsg{err: err}
	}
}

func (a App) submitReviewCmd(productID int64, rating int, comment string) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		err := svc.Reviews.Submit(context.Background(), productID, rating, comment)
		return reviewSubmittedMsg{productID: productID, err: err}
	}
}

// noCheckoutErr maps checkout sentinels to friendly toasts.
func noCheckoutErr(err error) string {
	switch {
	case err == nil:
		return ""
	case err == checkout.ErrEmptyCart:
		return "Your cart is empty"
	case err == checkout.ErrSubmissionInFlight:
		return "Order already submitting"
	default:
		return err.Error()
	}
}
