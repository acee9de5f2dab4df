package api

import (
	"context"
	"net/http"
)

// PlaceOrder submits {userId, shippingOptionId}. The server derives the line
// items from its own copy of the cart, so nothing else crosses the wire.
func (c *Client) PlaceOrder(ctx context.Context, userID, shippingOptionID int64) (*Order, error) {
	body := map[string]int64{"userId": userID, "shippingOptionId": shippingOptionID}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders fetches the order history of the current session.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/me", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ShippingOptions fetches the available shipping choices. Called once per
// checkout attempt; the result is treated as an immutable snapshot.
func (c *Client) ShippingOptions(ctx context.Context) ([]ShippingOption, error) {
	var options []ShippingOption
	if err := c.do(ctx, http.MethodGet, "/api/shipping", nil, &options); err != nil {
		return nil, err
	}
	return options, nil
}
