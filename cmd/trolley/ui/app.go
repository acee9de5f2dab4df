package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"trolley/internal/api"
	"trolley/internal/cart"
	"trolley/internal/catalog"
	"trolley/internal/checkout"
	"trolley/internal/insights"
	"trolley/internal/logging"
	"trolley/internal/orders"
	"trolley/internal/reviews"
	"trolley/internal/session"
	"trolley/internal/wishlist"
)

// Page identifies the active screen.
type Page int

const (
	PageStorefront Page = iota
	PageProduct
	PageCart
	PageCheckout
	PageOrders
	PageWishlist
	PageLogin
)

// pageTabs is the tab strip in navigation order. Product and checkout are
// reached from other pages, not from the strip.
var pageTabs = []string{"Shop", "Cart", "Orders", "Wishlist", "Account"}

// tabPage maps a tab index to its page.
var tabPage = []Page{PageStorefront, PageCart, PageOrders, PageWishlist, PageLogin}

// Services bundles everything the UI talks to.
type Services struct {
	Client   *api.Client
	Identity *session.Store
	Probe    *session.Probe
	Cart     *cart.Store
	Checkout *checkout.Orchestrator
	Catalog  *catalog.Service
	Orders   *orders.Service
	Wishlist *wishlist.Service
	Reviews  *reviews.Service
	Insights *insights.Service

	// External event feeds, filled by the caller before Run.
	CartChanges  <-chan cart.Snapshot
	ThemeChanges <-chan Theme
}

// App is the root bubbletea model for the storefront.
type App struct {
	svc    Services
	styles Styles

	page    Page
	tab     int
	width   int
	height  int
	booting bool

	spinner  spinner.Model
	toast    Toast
	status   StatusBar
	detailVP viewport.Model

	storefront StorefrontPage
	product    ProductPage
	cartPage   CartPage
	checkout   CheckoutPage
	orders     OrdersPage
	wishlist   WishlistPage
	login      LoginPage
}

// NewApp builds the root model.
func NewApp(svc Services, theme Theme) App {
	styles := NewStyles(theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	app := App{
		svc:        svc,
		styles:     styles,
		page:       PageStorefront,
		booting:    true,
		spinner:    sp,
		detailVP:   viewport.New(80, 20),
		storefront: NewStorefrontPage(),
		product:    NewProductPage(),
		cartPage:   NewCartPage(),
		checkout:   NewCheckoutPage(),
		orders:     NewOrdersPage(),
		wishlist:   NewWishlistPage(),
		login:      NewLoginPage(),
	}
	app.checkout.Bind(svc.Checkout)
	return app
}

// Init starts the boot sequence: resolve the session, load the catalog
// and hydrate the cart, then start listening on the event feeds.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.spinner.Tick,
		a.bootCmd(),
		a.waitForCart(),
	}
	if a.svc.ThemeChanges != nil {
		cmds = append(cmds, a.waitForTheme())
	}
	return tea.Batch(cmds...)
}

// bootCmd resolves identity first, then fans out the independent loads.
func (a App) bootCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		ctx := context.Background()
		if id := svc.Probe.Resolve(ctx); id == nil {
			logging.Boot("no authenticated session, browsing as guest")
		}

		var products []api.Product
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			products, err = svc.Catalog.Products(gctx)
			return err
		})
		g.Go(func() error {
			if _, err := svc.Cart.Load(gctx); err != nil {
				logging.Get(logging.CategoryCart).Warn("initial cart load: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			if svc.Identity.Identity() != nil {
				svc.Wishlist.Load(gctx)
			}
			return nil
		})
		err := g.Wait()

		return bootDoneMsg{
			identity: svc.Identity.Identity(),
			products: products,
			err:      err,
		}
	}
}

// waitForCart blocks on the cart feed and turns snapshots into messages.
func (a App) waitForCart() tea.Cmd {
	ch := a.svc.CartChanges
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return cartChangedMsg{snapshot: snapshot}
	}
}

// waitForTheme blocks on the theme feed.
func (a App) waitForTheme() tea.Cmd {
	ch := a.svc.ThemeChanges
	return func() tea.Msg {
		theme, ok := <-ch
		if !ok {
			return nil
		}
		return themeChangedMsg{theme: theme}
	}
}
