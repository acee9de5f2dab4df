// Package cart owns the client-side representation of the shopping cart.
// The server is authoritative: every mutation round-trips through the cart
// endpoint and the response replaces local state wholesale. The Store is the
// single writer; everything else consumes immutable snapshots pushed through
// the projection subscribers.
package cart

import "trolley/internal/api"

// Line is one product's entry in the cart.
type Line struct {
	ProductID     int64
	Name          string
	UnitPrice     float64
	OriginalPrice float64
	Quantity      int
	StockQuantity int
}

// Product reconstructs the product fields a mutation needs. Stock and
// price reflect what the server reported with the last confirmed cart.
func (l Line) Product() api.Product {
	return api.Product{
		ID:            l.ProductID,
		Name:          l.Name,
		Price:         l.UnitPrice,
		OriginalPrice: l.OriginalPrice,
		StockQuantity: l.StockQuantity,
	}
}

// Snapshot is an immutable copy of the cart handed to consumers.
type Snapshot struct {
	Lines map[int64]Line
}

// EmptySnapshot returns a snapshot with no lines.
func EmptySnapshot() Snapshot {
	return Snapshot{Lines: map[int64]Line{}}
}

// IsEmpty reports whether the cart holds no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line returns the line for a product and whether it exists.
func (s Snapshot) Line(productID int64) (Line, bool) {
	l, ok := s.Lines[productID]
	return l, ok
}

// linesFromAPI converts the server cart payload. Zero-quantity lines are
// never retained, matching the server's own invariant.
func linesFromAPI(c *api.Cart) map[int64]Line {
	lines := make(map[int64]Line, len(c.CartItems))
	for _, item := range c.CartItems {
		if item.Quantity <= 0 {
			continue
		}
		lines[item.Product.ID] = Line{
			ProductID:     item.Product.ID,
			Name:          item.Product.Name,
			UnitPrice:     item.Product.Price,
			OriginalPrice: item.Product.OriginalPrice,
			Quantity:      item.Quantity,
			StockQuantity: item.Product.StockQuantity,
		}
	}
	return lines
}
