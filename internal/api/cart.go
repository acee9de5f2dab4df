package api

import (
	"context"
	"fmt"
	"net/http"
)

// Cart fetches the server-side cart for a user, creating it if absent.
func (c *Client) Cart(ctx context.Context, userID int64) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/cart/%d", userID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem applies a signed quantity delta to one product line. A positive
// delta increments (adding the line when absent), a negative delta decrements
// (the server drops the line at zero). The response is the full authoritative
// cart after the mutation.
func (c *Client) AddCartItem(ctx context.Context, userID, productID int64, delta int) (*Cart, error) {
	body := map[string]interface{}{"productId": productID, "quantity": delta}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/cart/%d/items", userID), body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one product line outright regardless of quantity.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID int64) (*Cart, error) {
	var cart Cart
	path := fmt.Sprintf("/api/cart/%d/items/%d", userID, productID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart deletes the whole server-side cart.
func (c *Client) ClearCart(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/%d", userID), nil, nil)
}
