// Package wishlist tracks the saved-products list for the current session.
// It keeps a small membership cache so product views can render the heart
// state without a round-trip per product.
package wishlist

import (
	"context"
	"sync"

	"trolley/internal/api"
)

// Service loads and mutates the wishlist.
type Service struct {
	client *api.Client

	mu      sync.RWMutex
	members map[int64]bool
}

// NewService wires the wishlist over the API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client, members: map[int64]bool{}}
}

// Load fetches the wishlist and refreshes the membership cache.
func (s *Service) Load(ctx context.Context) ([]api.WishlistEntry, error) {
	entries, err := s.client.Wishlist(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members = make(map[int64]bool, len(entries))
	for _, e := range entries {
		s.members[e.Product.ID] = true
	}
	s.mu.Unlock()
	return entries, nil
}

// Toggle flips a product's membership and updates the cache from the
// server's answer.
func (s *Service) Toggle(ctx context.Context, productID int64) (*api.WishlistToggle, error) {
	result, err := s.client.ToggleWishlist(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if result.IsInWishlist {
		s.members[productID] = true
	} else {
		delete(s.members, productID)
	}
	s.mu.Unlock()
	return result, nil
}

// Remove deletes a product from the wishlist.
func (s *Service) Remove(ctx context.Context, productID int64) error {
	if err := s.client.RemoveWishlistItem(ctx, productID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.members, productID)
	s.mu.Unlock()
	return nil
}

// Contains reports cached membership for a product.
func (s *Service) Contains(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members[productID]
}

// Reset drops the membership cache. Called on logout.
func (s *Service) Reset() {
	s.mu.Lock()
	s.members = map[int64]bool{}
	s.mu.Unlock()
}
