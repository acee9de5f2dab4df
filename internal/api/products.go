package api

import (
	"context"
	"fmt"
	"net/http"
)

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one catalog entry by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
