// Package reviews loads product reviews and rating aggregates and gates
// review submission on the server's purchase check.
package reviews

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"trolley/internal/api"
)

// MaxRating is the top of the star scale.
const MaxRating = 5

// Summary bundles everything the product page needs in one shot.
type Summary struct {
	Reviews   []api.Review
	Stats     api.ReviewStats
	CanReview bool
}

// Service reads and writes product reviews.
type Service struct {
	client *api.Client
}

// NewService wires the review service over the API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Summarize fetches reviews, stats and the can-review flag for a product.
// The can-review probe is best-effort: an anonymous session simply may not
// review, that is not a page-load failure.
func (s *Service) Summarize(ctx context.Context, productID int64) (*Summary, error) {
	reviews, err := s.client.ProductReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats, err := s.client.ReviewStats(ctx, productID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Reviews: reviews, Stats: *stats}
	if can, err := s.client.CanReview(ctx, productID); err == nil {
		summary.CanReview = can
	}
	return summary, nil
}

// Submit validates locally and posts a new review.
func (s *Service) Submit(ctx context.Context, productID int64, rating int, comment string) error {
	if rating < 1 || rating > MaxRating {
		return &api.ValidationError{Message: fmt.Sprintf("rating must be between 1 and %d", MaxRating)}
	}
	if strings.TrimSpace(comment) == "" {
		return &api.ValidationError{Message: "review comment cannot be empty"}
	}
	return s.client.SubmitReview(ctx, productID, rating, strings.TrimSpace(comment))
}

// Stars renders a rating as a five-rune star strip, e.g. "★★★☆☆".
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

// DistributionShare returns the fraction of reviews that gave the given
// star rating, in [0, 1]. Used to size the histogram bars.
func DistributionShare(stats api.ReviewStats, stars int) float64 {
	if stats.ReviewCount == 0 {
		return 0
	}
	count := stats.RatingDistribution[strconv.Itoa(stars)]
	return float64(count) / float64(stats.ReviewCount)
}
