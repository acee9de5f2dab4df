// Package orders provides order history and the reorder flow.
package orders

import (
	"context"
	"fmt"
	"strings"

	"trolley/internal/api"
	"trolley/internal/cart"
)

// Order statuses as reported by the server.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Service fetches history and replays past orders into the cart.
type Service struct {
	client *api.Client
	cart   *cart.Store
}

// NewService wires the order service. Reorder flows through the cart store so
// the single-writer invariant holds.
func NewService(client *api.Client, cartStore *cart.Store) *Service {
	return &Service{client: client, cart: cartStore}
}

// History fetches the order history of the current session.
func (s *Service) History(ctx context.Context) ([]api.Order, error) {
	return s.client.MyOrders(ctx)
}

// CanReorder reports whether an order is eligible for reordering.
// Only delivered orders qualify.
func CanReorder(o api.Order) bool {
	return strings.EqualFold(o.Status, StatusDelivered)
}

// Reorder adds every line of a past order back into the cart, aborting on
// the first rejected item so a partial stock failure is visible instead of
// silently skipped.
func (s *Service) Reorder(ctx context.Context, order api.Order) error {
	if !CanReorder(order) {
		return fmt.Errorf("order #%d is not delivered and cannot be reordered", order.ID)
	}
	for _, item := range order.OrderItems {
		if _, err := s.cart.Mutate(ctx, item.Product.ID, item.Quantity); err != nil {
			return fmt.Errorf("failed to add %s to cart: %w", item.Product.Name, err)
		}
	}
	return nil
}

// ItemTotal is the display total of one order line.
func ItemTotal(item api.OrderItem) float64 {
	price := item.PriceAtPurchase
	if price == 0 {
		price = item.Product.Price
	}
	return price * float64(item.Quantity)
}
