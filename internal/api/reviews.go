package api

import (
	"context"
	"fmt"
	"net/http"
)

// ProductReviews fetches all reviews for a product.
func (c *Client) ProductReviews(ctx context.Context, productID int64) ([]Review, error) {
	var reviews []Review
	path := fmt.Sprintf("/api/reviews/product/%d", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReviewStats fetches the aggregate rating payload for a product.
func (c *Client) ReviewStats(ctx context.Context, productID int64) (*ReviewStats, error) {
	var stats ReviewStats
	path := fmt.Sprintf("/api/reviews/product/%d/stats", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CanReview reports whether the current user may review the product
// (requires a delivered purchase and no prior review).
func (c *Client) CanReview(ctx context.Context, productID int64) (bool, error) {
	var result struct {
		CanReview bool `json:"canReview"`
	}
	path := fmt.Sprintf("/api/reviews/product/%d/can-review", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return false, err
	}
	return result.CanReview, nil
}

// SubmitReview posts a new review for a product.
func (c *Client) SubmitReview(ctx context.Context, productID int64, rating int, comment string) error {
	body := map[string]interface{}{"rating": rating, "comment": comment}
	path := fmt.Sprintf("/api/reviews/product/%d", productID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}
