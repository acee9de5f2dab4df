package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/api"
	"trolley/internal/cart"
	"trolley/internal/catalog"
	"trolley/internal/checkout"
	"trolley/internal/insights"
	"trolley/internal/orders"
	"trolley/internal/reviews"
	"trolley/internal/session"
	"trolley/internal/wishlist"
)

// fakeShop is a minimal storefront backend for app-level tests.
type fakeShop struct {
	authenticated bool
	quantities    map[int64]int
}

func (f *fakeShop) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if !f.authenticated {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id": 7, "username": "maria", "role": "ROLE_USER"}`)
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "name": "Kettle", "price": 10, "category": "Kitchen", "stockQuantity": 40},
			{"id": 2, "name": "Mug", "price": 4, "category": "Kitchen", "stockQuantity": 40}
		]`)
	})
	mux.HandleFunc("/api/cart/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.cartPayload())
	})
	mux.HandleFunc("/api/cart/7/items", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.quantities[body.ProductID] += body.Quantity
		if f.quantities[body.ProductID] <= 0 {
			delete(f.quantities, body.ProductID)
		}
		json.NewEncoder(w).Encode(f.cartPayload())
	})
	mux.HandleFunc("/api/wishlist", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	return mux
}

func (f *fakeShop) cartPayload() api.Cart {
	names := map[int64]string{1: "Kettle", 2: "Mug"}
	prices := map[int64]float64{1: 10, 2: 4}
	c := api.Cart{ID: 99}
	for id, qty := range f.quantities {
		c.CartItems = append(c.CartItems, api.CartItem{
			ID:       id,
			Product:  api.Product{ID: id, Name: names[id], Price: prices[id], StockQuantity: 40},
			Quantity: qty,
		})
	}
	return c
}

// newTestApp wires a full App against the fake backend.
func newTestApp(t *testing.T, shop *fakeShop) (App, chan cart.Snapshot) {
	t.Helper()
	srv := httptest.NewServer(shop.handler())
	t.Cleanup(srv.Close)

	client := api.NewWithHTTPClient(srv.URL, srv.Client())
	identity := session.NewStore()
	cartStore := cart.NewStore(client, identity, nil)

	cartCh := make(chan cart.Snapshot, 16)
	cartStore.Subscribe(func(s cart.Snapshot, _ cart.Projection) {
		select {
		case cartCh <- s:
		default:
		}
	})

	svc := Services{
		Client:      client,
		Identity:    identity,
		Probe:       session.NewProbe(client, identity),
		Cart:        cartStore,
		Checkout:    checkout.New(client, identity, cartStore),
		Catalog:     catalog.NewService(client),
		Orders:      orders.NewService(client, cartStore),
		Wishlist:    wishlist.NewService(client),
		Reviews:     reviews.NewService(client),
		Insights:    insights.NewService(nil),
		CartChanges: cartCh,
	}
	return NewApp(svc, LightTheme()), cartCh
}

// step runs one message through Update, returning the new model.
func step(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	next, ok := model.(App)
	if !ok {
		t.Fatalf("Update returned %T", model)
	}
	return next, cmd
}

func TestAppBootRendersStorefront(t *testing.T) {
	shop := &fakeShop{quantities: map[int64]int{}}
	app, _ := newTestApp(t, shop)

	msg := app.bootCmd()()
	app, _ = step(t, app, msg)

	view := app.View()
	if !strings.Contains(view, "Kettle") || !strings.Contains(view, "Mug") {
		t.Fatalf("expected the catalog after boot, got:\n%s", view)
	}
	if !strings.Contains(view, "Cart empty") {
		t.Fatalf("expected the empty cart badge")
	}
	if !strings.Contains(view, "guest") {
		t.Fatalf("anonymous boot must show the guest label")
	}
}

func TestAppAddToCartUpdatesBadge(t *testing.T) {
	shop := &fakeShop{authenticated: true, quantities: map[int64]int{}}
	app, appFeed := newTestApp(t, shop)

	cartCh := appFeed
	drain := func() {
		for {
			select {
			case s := <-cartCh:
				app, _ = step(t, app, cartChangedMsg{snapshot: s})
			default:
				return
			}
		}
	}

	app, _ = step(t, app, app.bootCmd()())
	if !strings.Contains(app.View(), "maria") {
		t.Fatalf("expected the signed-in username in the bar")
	}
	drain()

	// Press a on the first product.
	app, cmd := step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd == nil {
		t.Fatalf("expected a mutation command")
	}
	app, _ = step(t, app, cmd())

	// The confirmed snapshot is already on the feed.
	drain()
	if app.status.Projection.ItemCount != 1 {
		t.Fatalf("badge count = %d, want 1", app.status.Projection.ItemCount)
	}
	if !strings.Contains(app.View(), "$10.00") {
		t.Fatalf("expected the subtotal in the sticky bar")
	}
}

func TestAppAnonymousMutationRedirectsToLogin(t *testing.T) {
	shop := &fakeShop{quantities: map[int64]int{}}
	app, _ := newTestApp(t, shop)
	app, _ = step(t, app, app.bootCmd()())

	// Without an identity the server path refuses immediately.
	_, err := app.svc.Cart.Mutate(context.Background(), 1, 1)
	if err == nil {
		t.Fatalf("anonymous Mutate must fail")
	}
	app, _ = step(t, app, mutationDoneMsg{productName: "Kettle", delta: 1, err: err})

	if app.page != PageLogin {
		t.Fatalf("expected the login page, got %d", app.page)
	}
	if !strings.Contains(app.View(), "Sign in") {
		t.Fatalf("expected the sign-in form")
	}
}

func TestAppExpiredSessionClearsIdentity(t *testing.T) {
	shop := &fakeShop{authenticated: true, quantities: map[int64]int{}}
	app, _ := newTestApp(t, shop)
	app, _ = step(t, app, app.bootCmd()())
	if app.status.Username != "maria" {
		t.Fatalf("expected an authenticated boot")
	}

	// The server dropped the session while the orders page was loading.
	app, _ = step(t, app, ordersLoadedMsg{err: api.ErrUnauthenticated})

	if app.page != PageLogin {
		t.Fatalf("expected the login page, got %d", app.page)
	}
	if app.svc.Identity.Identity() != nil {
		t.Fatalf("a 401 must clear the cached identity")
	}
	view := app.View()
	if strings.Contains(view, "maria") {
		t.Fatalf("stale username still on screen:\n%s", view)
	}
	if !strings.Contains(view, "Sign in") {
		t.Fatalf("login form must be reachable after the session expires")
	}
}

func TestAppTabSwitching(t *testing.T) {
	shop := &fakeShop{quantities: map[int64]int{}}
	app, _ := newTestApp(t, shop)
	app, _ = step(t, app, app.bootCmd()())

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if app.page != PageCart {
		t.Fatalf("expected the cart page on tab 2")
	}
	if !strings.Contains(app.View(), "cart is empty") {
		t.Fatalf("expected the empty cart page")
	}

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}})
	if app.page != PageLogin {
		t.Fatalf("expected the account page on tab 5")
	}
}
