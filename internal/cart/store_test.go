package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/api"
	"trolley/internal/localstore"
	"trolley/internal/session"
)

// fakeCartServer mimics the storefront cart endpoints: signed-delta item
// mutations, stock limits, and whole-cart delete.
type fakeCartServer struct {
	mu         sync.Mutex
	products   map[int64]api.Product
	quantities map[int64]int
	deletes    int
}

func newFakeCartServer(products ...api.Product) *fakeCartServer {
	f := &fakeCartServer{
		products:   map[int64]api.Product{},
		quantities: map[int64]int{},
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCartServer) cartPayload() api.Cart {
	cart := api.Cart{ID: 1}
	for id, qty := range f.quantities {
		cart.CartItems = append(cart.CartItems, api.CartItem{
			Product:  f.products[id],
			Quantity: qty,
		})
	}
	return cart
}

func (f *fakeCartServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(f.cartPayload())

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/items"):
			var body struct {
				ProductID int64 `json:"productId"`
				Quantity  int   `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)

			product, ok := f.products[body.ProductID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprintf(w, `{"message": "Product not found"}`)
				return
			}
			newQty := f.quantities[body.ProductID] + body.Quantity
			if newQty > product.StockQuantity {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, `{"message": "Cannot add product: insufficient stock available. Only %d units remaining."}`, product.StockQuantity)
				return
			}
			if newQty <= 0 {
				delete(f.quantities, body.ProductID)
			} else {
				f.quantities[body.ProductID] = newQty
			}
			json.NewEncoder(w).Encode(f.cartPayload())

		case r.Method == http.MethodDelete:
			f.deletes++
			f.quantities = map[int64]int{}
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newAuthenticatedStore(t *testing.T, f *fakeCartServer) (*Store, func()) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	ids := session.NewStore()
	client := api.NewWithHTTPClient(srv.URL, srv.Client())
	seedIdentity(ids, 7)
	return NewStore(client, ids, nil), srv.Close
}

// seedIdentity plants an identity without a network probe.
func seedIdentity(ids *session.Store, userID int64) {
	probeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": %d, "username": "test", "role": "ROLE_USER"}`, userID)
	}))
	defer probeSrv.Close()
	session.NewProbe(api.NewWithHTTPClient(probeSrv.URL, probeSrv.Client()), ids).Resolve(context.Background())
}

var mugs = api.Product{ID: 3, Name: "Mug", Price: 10, StockQuantity: 5}
var pens = api.Product{ID: 4, Name: "Pen", Price: 5, StockQuantity: 9}

func TestMutateAddsNewLineWithQuantityOne(t *testing.T) {
	store, closeSrv := newAuthenticatedStore(t, newFakeCartServer(mugs))
	defer closeSrv()

	snap, err := store.Mutate(context.Background(), 3, 1)
	require.NoError(t, err)

	line, ok := snap.Line(3)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.Len(t, snap.Lines, 1)
}

func TestMutateDecrementToZeroRemovesLine(t *testing.T) {
	store, closeSrv := newAuthenticatedStore(t, newFakeCartServer(mugs))
	defer closeSrv()

	_, err := store.Mutate(context.Background(), 3, 1)
	require.NoError(t, err)

	snap, err := store.Mutate(context.Background(), 3, -1)
	require.NoError(t, err)

	_, ok := snap.Line(3)
	assert.False(t, ok, "zero-quantity lines must never persist")
	assert.True(t, snap.IsEmpty())
}

func TestMutateInsufficientStockLeavesCartUnchanged(t *testing.T) {
	store, closeSrv := newAuthenticatedStore(t, newFakeCartServer(mugs))
	defer closeSrv()

	before, err := store.Mutate(context.Background(), 3, 2)
	require.NoError(t, err)

	after, err := store.Mutate(context.Background(), 3, 4) // 2+4 > stock of 5
	require.ErrorIs(t, err, api.ErrInsufficientStock)

	if diff := cmp.Diff(before.Lines, after.Lines); diff != "" {
		t.Errorf("cart changed on rejected mutation (-before +after):\n%s", diff)
	}
}

func TestProjectionTracksLastConfirmedCart(t *testing.T) {
	store, closeSrv := newAuthenticatedStore(t, newFakeCartServer(mugs, pens))
	defer closeSrv()

	var last Projection
	store.Subscribe(func(_ Snapshot, p Projection) { last = p })

	ctx := context.Background()
	_, err := store.Mutate(ctx, 3, 2)
	require.NoError(t, err)
	_, err = store.Mutate(ctx, 4, 1)
	require.NoError(t, err)
	_, err = store.Mutate(ctx, 3, -1)
	require.NoError(t, err)

	assert.Equal(t, 2, last.ItemCount)
	assert.Equal(t, 15.0, last.Subtotal) // 1x$10 + 1x$5
}

func TestMutateWithoutIdentityFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server for an anonymous mutation")
	}))
	defer srv.Close()

	store := NewStore(api.NewWithHTTPClient(srv.URL, srv.Client()), session.NewStore(), nil)
	_, err := store.Mutate(context.Background(), 3, 1)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestLogoutThenLoadReturnsEmptyCart(t *testing.T) {
	f := newFakeCartServer(mugs)
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	ids := session.NewStore()
	seedIdentity(ids, 7)
	store := NewStore(api.NewWithHTTPClient(srv.URL, srv.Client()), ids, nil)

	_, err := store.Mutate(context.Background(), 3, 2)
	require.NoError(t, err)

	// Logout clears identity and local cart.
	ids.Clear()
	store.Drop()

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestClearIssuesServerDeleteExactlyOnce(t *testing.T) {
	f := newFakeCartServer(mugs)
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	ids := session.NewStore()
	seedIdentity(ids, 7)
	store := NewStore(api.NewWithHTTPClient(srv.URL, srv.Client()), ids, nil)

	_, err := store.Mutate(context.Background(), 3, 1)
	require.NoError(t, err)

	store.Clear(context.Background())

	assert.True(t, store.Snapshot().IsEmpty())
	f.mu.Lock()
	assert.Equal(t, 1, f.deletes)
	f.mu.Unlock()
}

func TestClearSurvivesServerDeleteFailure(t *testing.T) {
	var deletes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(api.Cart{})
	}))
	defer srv.Close()

	ids := session.NewStore()
	seedIdentity(ids, 7)
	store := NewStore(api.NewWithHTTPClient(srv.URL, srv.Client()), ids, nil)

	store.Clear(context.Background())

	// The local cart stays empty; the failure is logged, not propagated.
	assert.True(t, store.Snapshot().IsEmpty())
	assert.Equal(t, 1, deletes)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	store := NewStore(nil, session.NewStore(), nil)

	first := store.stamp()
	second := store.stamp()

	// The newer mutation's response lands first.
	store.apply(second, map[int64]Line{3: {ProductID: 3, Name: "Mug", UnitPrice: 10, Quantity: 2}})
	// The older response arrives late and must be dropped.
	snap := store.apply(first, map[int64]Line{3: {ProductID: 3, Name: "Mug", UnitPrice: 10, Quantity: 1}})

	line, ok := snap.Line(3)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity, "stale response must not clobber fresher state")
}

func TestAnonymousFallbackRoundTrip(t *testing.T) {
	fallback, err := localstore.Open(filepath.Join(t.TempDir(), "trolley.db"))
	require.NoError(t, err)
	defer fallback.Close()

	store := NewStore(nil, session.NewStore(), fallback)

	snap, err := store.MutateLocal(mugs, 2)
	require.NoError(t, err)
	line, ok := snap.Line(3)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)

	// Stock cap applies locally too.
	_, err = store.MutateLocal(mugs, 4)
	assert.ErrorIs(t, err, api.ErrInsufficientStock)

	// A fresh store rehydrates the anonymous cart from disk.
	store2 := NewStore(nil, session.NewStore(), fallback)
	snap, err = store2.Load(context.Background())
	require.NoError(t, err)
	line, ok = snap.Line(3)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)

	// Login wipes the fallback so only the server cart remains.
	store2.ClearFallback()
	items, err := fallback.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubscribeReceivesCurrentStateImmediately(t *testing.T) {
	store := NewStore(nil, session.NewStore(), nil)
	store.apply(store.stamp(), map[int64]Line{3: {ProductID: 3, UnitPrice: 10, Quantity: 2}})

	var got Projection
	store.Subscribe(func(_ Snapshot, p Projection) { got = p })

	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, 20.0, got.Subtotal)
}
