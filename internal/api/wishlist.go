package api

import (
	"context"
	"fmt"
	"net/http"
)

// Wishlist fetches the saved products of the current session.
func (c *Client) Wishlist(ctx context.Context) ([]WishlistEntry, error) {
	var entries []WishlistEntry
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ToggleWishlist flips a product in or out of the wishlist and reports the
// resulting membership.
func (c *Client) ToggleWishlist(ctx context.Context, productID int64) (*WishlistToggle, error) {
	var result WishlistToggle
	path := fmt.Sprintf("/api/wishlist/toggle/%d", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveWishlistItem removes a product from the wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wishlist/remove/%d", productID), nil, nil)
}

// WishlistCount returns how many products are saved.
func (c *Client) WishlistCount(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}
