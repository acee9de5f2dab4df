package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/api"
	"trolley/internal/cart"
)

// Update is the root message dispatcher.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.status.Width = msg.Width
		a.detailVP.Width = msg.Width - 2
		a.detailVP.Height = msg.Height - 9
		if a.detailVP.Height < 5 {
			a.detailVP.Height = 5
		}
		a.refreshDetail()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		// The detail page renders through a viewport, so its content is
		// recomputed on the spinner cadence to stay live.
		if a.page == PageProduct {
			a.refreshDetail()
		}
		return a, cmd

	case toastExpiredMsg:
		a.toast.Update(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case bootDoneMsg:
		return a.handleBootDone(msg)

	case cartChangedMsg:
		a.status.Projection = cart.Project(msg.snapshot)
		a.cartPage.SetSnapshot(msg.snapshot)
		a.cartPage.busy = false
		return a, a.waitForCart()

	case themeChangedMsg:
		a.styles = NewStyles(msg.theme)
		a.spinner.Style = a.styles.Info
		a.product.renderer = nil // re-render markdown for the new palette
		return a, a.waitForTheme()

	case productsLoadedMsg:
		if msg.err == nil {
			a.storefront.SetProducts(msg.products)
		}
		return a, nil

	case mutationDoneMsg:
		return a.handleMutationDone(msg)

	case reviewsLoadedMsg:
		if msg.productID != a.product.Product().ID {
			return a, nil // stale, user already moved on
		}
		if msg.err != nil {
			a.product.loadingReviews = false
			a.refreshDetail()
			return a, a.errToast(msg.err)
		}
		a.product.SetSummary(msg.summary)
		a.refreshDetail()
		return a, nil

	case insightMsg:
		if msg.productID != a.product.Product().ID {
			return a, nil
		}
		a.product.loadingInsight = false
		if msg.err != nil {
			a.refreshDetail()
			return a, a.toast.Show(ToastWarning, "Insight unavailable right now")
		}
		a.product.insight = msg.text
		a.refreshDetail()
		return a, nil

	case checkoutBegunMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return a, a.sessionExpired("Sign in to check out")
			}
			return a, a.toast.Show(ToastError, noCheckoutErr(msg.err))
		}
		a.page = PageCheckout
		a.checkout.Reset()
		return a, nil

	case orderPlacedMsg:
		if msg.err != nil {
			return a, a.toast.Show(ToastError, noCheckoutErr(msg.err))
		}
		a.page = PageOrders
		a.tab = 2
		a.orders.loading = true
		toast := fmt.Sprintf("Order placed, total %s", Money(msg.order.TotalAmount))
		return a, tea.Batch(a.toast.Show(ToastSuccess, toast), a.loadOrdersCmd())

	case ordersLoadedMsg:
		if msg.err != nil {
			a.orders.loading = false
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return a, a.sessionExpired("Sign in to see your orders")
			}
			return a, a.errToast(msg.err)
		}
		a.orders.SetOrders(msg.orders)
		return a, nil

	case reorderDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrInsufficientStock) {
				return a, a.toast.Show(ToastWarning, msg.err.Error())
			}
			return a, a.errToast(msg.err)
		}
		a.page = PageCart
		a.tab = 1
		return a, a.toast.Show(ToastSuccess, fmt.Sprintf("Order #%d is back in your cart", msg.orderID))

	case wishlistLoadedMsg:
		if msg.err != nil {
			a.wishlist.loading = false
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return a, a.sessionExpired("Sign in to use your wishlist")
			}
			return a, a.errToast(msg.err)
		}
		a.wishlist.SetEntries(msg.entries)
		return a, nil

	case wishlistToggledMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return a, a.sessionExpired("Sign in to save products")
			}
			return a, a.errToast(msg.err)
		}
		kind := ToastSuccess
		if !msg.result.IsInWishlist {
			kind = ToastInfo
		}
		cmds := []tea.Cmd{a.toast.Show(kind, msg.result.Message)}
		if a.page == PageWishlist {
			cmds = append(cmds, a.loadWishlistCmd())
		}
		return a, tea.Batch(cmds...)

	case authDoneMsg:
		return a.handleAuthDone(msg)

	case loggedOutMsg:
		a.status.Username = ""
		a.page = PageStorefront
		a.tab = 0
		return a, a.toast.Show(ToastInfo, "Signed out")

	case reviewSubmittedMsg:
		if msg.err != nil {
			return a, a.errToast(msg.err)
		}
		a.product.composing = false
		a.product.comment.SetValue("")
		a.product.loadingReviews = true
		a.refreshDetail()
		return a, tea.Batch(
			a.toast.Show(ToastSuccess, "Review posted"),
			a.loadReviewsCmd(msg.productID),
		)
	}

	return a, nil
}

func (a App) handleBootDone(msg bootDoneMsg) (tea.Model, tea.Cmd) {
	a.booting = false
	if msg.identity != nil {
		a.status.Username = msg.identity.Username
	}
	a.status.Projection = cart.Project(a.svc.Cart.Snapshot())
	a.cartPage.SetSnapshot(a.svc.Cart.Snapshot())
	if msg.err != nil {
		return a, a.errToast(msg.err)
	}
	a.storefront.SetProducts(msg.products)
	return a, nil
}

func (a App) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	a.cartPage.busy = false
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, api.ErrInsufficientStock):
			var verr *api.ValidationError
			if errors.As(msg.err, &verr) {
				return a, a.toast.Show(ToastWarning, verr.Message)
			}
			return a, a.toast.Show(ToastWarning, "Not enough stock")
		case errors.Is(msg.err, api.ErrUnauthenticated):
			return a, a.sessionExpired("Sign in to shop")
		default:
			return a, a.errToast(msg.err)
		}
	}
	if msg.delta > 0 {
		return a, a.toast.Show(ToastSuccess, fmt.Sprintf("Added %s to cart", msg.productName))
	}
	return a, nil
}

func (a App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	a.login.busy = false
	a.login.ClearPassword()
	if msg.err != nil {
		var verr *api.ValidationError
		if errors.As(msg.err, &verr) {
			return a, a.toast.Show(ToastError, verr.Message)
		}
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return a, a.toast.Show(ToastError, "Wrong username or password")
		}
		return a, a.errToast(msg.err)
	}
	a.status.Username = msg.identity.Username
	a.status.Projection = cart.Project(a.svc.Cart.Snapshot())
	a.cartPage.SetSnapshot(a.svc.Cart.Snapshot())
	a.page = PageStorefront
	a.tab = 0
	greeting := fmt.Sprintf("Welcome back, %s", msg.identity.Username)
	if msg.register {
		greeting = fmt.Sprintf("Welcome, %s", msg.identity.Username)
	}
	return a, tea.Batch(a.toast.Show(ToastSuccess, greeting), a.loadProductsCmd())
}

// sessionExpired handles a 401 on a call made while signed in. The server no
// longer honors the session cookie, so the cached identity is stale: clear it
// and land the user on the login form.
func (a *App) sessionExpired(message string) tea.Cmd {
	a.svc.Identity.Clear()
	a.status.Username = ""
	a.page = PageLogin
	a.tab = len(tabPage) - 1
	return a.toast.Show(ToastWarning, message)
}

// errToast maps an arbitrary error onto a toast with taxonomy-aware text.
func (a *App) errToast(err error) tea.Cmd {
	switch {
	case api.IsNetwork(err):
		return a.toast.Show(ToastError, "Cannot reach the shop, check your connection")
	case errors.Is(err, api.ErrUnauthenticated):
		return a.toast.Show(ToastWarning, "Sign in first")
	default:
		return a.toast.Show(ToastError, err.Error())
	}
}
