// Package catalog provides product browsing: the full listing, category
// derivation, and the client-side search/filter the storefront grid uses.
package catalog

import (
	"context"
	"math"
	"sort"
	"strings"

	"trolley/internal/api"
)

// AllCategories is the pseudo-category selecting the whole catalog.
const AllCategories = "All"

// LimitedStockThreshold marks products worth a "only N left" nudge.
const LimitedStockThreshold = 10

// Availability classifies a product's stock situation for display.
type Availability int

const (
	InStock Availability = iota
	LimitedStock
	OutOfStock
)

// Service fetches catalog data.
type Service struct {
	client *api.Client
}

// NewService wires the catalog over the API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Products fetches the full catalog.
func (s *Service) Products(ctx context.Context) ([]api.Product, error) {
	return s.client.Products(ctx)
}

// Product fetches one product by id.
func (s *Service) Product(ctx context.Context, id int64) (*api.Product, error) {
	return s.client.Product(ctx, id)
}

// Categories derives the filter list from the catalog: the All
// pseudo-category first, then each distinct non-empty category sorted.
func Categories(products []api.Product) []string {
	seen := map[string]bool{}
	var categories []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return append([]string{AllCategories}, categories...)
}

// Filter applies the active category and search query. The query matches
// case-insensitively against name, description, and category, the same three
// fields the storefront search box covers.
func Filter(products []api.Product, category, query string) []api.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []api.Product
	for _, p := range products {
		if category != "" && category != AllCategories && !strings.EqualFold(p.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AvailabilityOf classifies a product for display.
func AvailabilityOf(p api.Product) Availability {
	switch {
	case p.StockQuantity <= 0:
		return OutOfStock
	case p.StockQuantity <= LimitedStockThreshold:
		return LimitedStock
	default:
		return InStock
	}
}

// DiscountPercent returns the rounded sale discount, or 0 when the product
// is not meaningfully on sale.
func DiscountPercent(p api.Product) int {
	if !p.OnSale || p.OriginalPrice <= p.Price || p.OriginalPrice == 0 {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}
