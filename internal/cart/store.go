package cart

import (
	"context"
	"fmt"
	"sync"

	"trolley/internal/api"
	"trolley/internal/localstore"
	"trolley/internal/logging"
	"trolley/internal/session"
)

// Subscriber receives the fresh snapshot and projection after every state
// change. Called synchronously under no lock, in registration order.
type Subscriber func(Snapshot, Projection)

// Store reconciles the in-memory cart against the server. One instance per
// app run; all mutations flow through it.
//
// Rapid consecutive mutations each issue an independent network call, and
// responses can arrive out of order. Every request is stamped with a
// monotonic sequence number and a response older than the newest applied one
// is discarded, so a stale reply can never clobber fresher state.
type Store struct {
	client   *api.Client
	identity *session.Store
	fallback *localstore.Store // anonymous browsing cart, nil when disabled

	mu      sync.Mutex
	lines   map[int64]Line
	nextSeq uint64
	applied uint64

	subMu sync.Mutex
	subs  []Subscriber
}

// NewStore creates a cart store over the API client and identity store.
// fallback may be nil; when present it serves read-only rehydration and
// local-only mutations for anonymous browsing.
func NewStore(client *api.Client, identity *session.Store, fallback *localstore.Store) *Store {
	return &Store{
		client:   client,
		identity: identity,
		fallback: fallback,
		lines:    map[int64]Line{},
	}
}

// Subscribe registers a consumer for projection pushes. The subscriber is
// immediately invoked with the current state so late registrants do not miss
// the last change.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
	snap := s.Snapshot()
	fn(snap, Project(snap))
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	lines := make(map[int64]Line, len(s.lines))
	for id, l := range s.lines {
		lines[id] = l
	}
	return Snapshot{Lines: lines}
}

// notify pushes the current state to every subscriber.
func (s *Store) notify() {
	snap := s.Snapshot()
	proj := Project(snap)
	s.subMu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap, proj)
	}
}

// Load rehydrates the cart. With an identity present the server cart replaces
// local state entirely. Anonymous runs see the local fallback cart when one
// is configured, otherwise an empty cart; the fallback is never consulted
// once an identity exists.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		lines := map[int64]Line{}
		if s.fallback != nil {
			items, err := s.fallback.Items()
			if err != nil {
				logging.Get(logging.CategoryCart).Warn("fallback cart read failed: %v", err)
			} else {
				for _, it := range items {
					lines[it.ProductID] = Line{
						ProductID:     it.ProductID,
						Name:          it.Name,
						UnitPrice:     it.UnitPrice,
						OriginalPrice: it.OriginalPrice,
						Quantity:      it.Quantity,
						StockQuantity: it.StockQuantity,
					}
				}
			}
		}
		s.mu.Lock()
		s.lines = lines
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify()
		return snap, nil
	}

	seq := s.stamp()
	serverCart, err := s.client.Cart(ctx, userID)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.apply(seq, linesFromAPI(serverCart)), nil
}

// Mutate applies a signed quantity delta to one product line through the
// server. Requires an identity: anonymous callers get api.ErrUnauthenticated
// and must route to login. The server response is authoritative and replaces
// local state; on any error local state is untouched.
func (s *Store) Mutate(ctx context.Context, productID int64, delta int) (Snapshot, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return s.Snapshot(), api.ErrUnauthenticated
	}

	seq := s.stamp()
	serverCart, err := s.client.AddCartItem(ctx, userID, productID, delta)
	if err != nil {
		logging.Cart("mutation product=%d delta=%+d rejected: %v", productID, delta, err)
		return s.Snapshot(), err
	}
	logging.CartDebug("mutation product=%d delta=%+d applied (seq=%d)", productID, delta, seq)
	return s.apply(seq, linesFromAPI(serverCart)), nil
}

// MutateLocal applies a delta to the anonymous fallback cart. Browse-only
// mode: no server round-trip, no checkout capability, and never available
// once an identity exists (the server cart is the sole source of truth then).
func (s *Store) MutateLocal(product api.Product, delta int) (Snapshot, error) {
	if _, ok := s.identity.UserID(); ok {
		return s.Snapshot(), fmt.Errorf("local cart is unavailable while signed in")
	}
	if s.fallback == nil {
		return s.Snapshot(), api.ErrUnauthenticated
	}

	s.mu.Lock()
	current := s.lines[product.ID].Quantity
	s.mu.Unlock()

	newQty := current + delta
	if newQty > product.StockQuantity {
		return s.Snapshot(), &api.ValidationError{
			Status:  400,
			Message: fmt.Sprintf("Cannot add product: insufficient stock available. Only %d units remaining.", product.StockQuantity),
		}
	}

	var err error
	if newQty <= 0 {
		err = s.fallback.Delete(product.ID)
	} else {
		err = s.fallback.Upsert(localstore.Item{
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.Price,
			OriginalPrice: product.OriginalPrice,
			Quantity:      newQty,
			StockQuantity: product.StockQuantity,
		})
	}
	if err != nil {
		return s.Snapshot(), fmt.Errorf("failed to persist local cart: %w", err)
	}

	s.mu.Lock()
	if newQty <= 0 {
		delete(s.lines, product.ID)
	} else {
		s.lines[product.ID] = Line{
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.Price,
			OriginalPrice: product.OriginalPrice,
			Quantity:      newQty,
			StockQuantity: product.StockQuantity,
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify()
	return snap, nil
}

// Clear empties the local cart and deletes the server-side cart. A failed
// server delete is logged and swallowed: by the time Clear runs the order has
// already been placed, so resurrecting the local cart would be wrong.
func (s *Store) Clear(ctx context.Context) {
	userID, hasIdentity := s.identity.UserID()

	s.mu.Lock()
	s.lines = map[int64]Line{}
	s.applied = s.nextSeq
	s.mu.Unlock()
	s.notify()

	if hasIdentity {
		if err := s.client.ClearCart(ctx, userID); err != nil {
			logging.Get(logging.CategoryCart).Warn("server cart delete failed: %v", err)
		}
	}
}

// Drop empties local state without touching the server. Used on logout.
func (s *Store) Drop() {
	s.mu.Lock()
	s.lines = map[int64]Line{}
	s.applied = s.nextSeq
	s.mu.Unlock()
	s.notify()
}

// ClearFallback wipes the anonymous cart. Called after a successful login so
// the local copy and the server cart never coexist.
func (s *Store) ClearFallback() {
	if s.fallback == nil {
		return
	}
	if err := s.fallback.Clear(); err != nil {
		logging.Get(logging.CategoryCart).Warn("fallback cart clear failed: %v", err)
	}
}

// stamp hands out the next mutation sequence number.
func (s *Store) stamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// apply installs a server response unless a newer one already landed.
func (s *Store) apply(seq uint64, lines map[int64]Line) Snapshot {
	s.mu.Lock()
	if seq < s.applied {
		logging.CartDebug("discarding stale response seq=%d (applied=%d)", seq, s.applied)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.applied = seq
	s.lines = lines
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify()
	return snap
}
