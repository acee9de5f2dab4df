package api

// Identity is the authenticated user for the current session, as reported by
// GET /api/users/me. Absence of an Identity means anonymous browsing.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == "ROLE_ADMIN"
}

// Product is one catalog entry.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	ImageURL      string  `json:"imageUrl"`
	Category      string  `json:"category"`
	OnSale        bool    `json:"onSale"`
	StockQuantity int     `json:"stockQuantity"`
}

// CartItem is one product line within the server cart payload.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the server's authoritative cart representation.
type Cart struct {
	ID        int64      `json:"id"`
	CartItems []CartItem `json:"cartItems"`
}

// ShippingOption is an immutable shipping choice snapshot.
type ShippingOption struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	Cost                  float64 `json:"cost"`
	EstimatedDeliveryTime string  `json:"estimatedDeliveryTime"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	Product         Product `json:"product"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

// Order is a placed order as returned by the order endpoints. The client
// never mutates one; it only constructs the {userId, shippingOptionId}
// submission and reads these back.
type Order struct {
	ID           int64       `json:"id"`
	OrderDate    string      `json:"orderDate"`
	Status       string      `json:"status"`
	Subtotal     float64     `json:"subtotal"`
	ShippingCost float64     `json:"shippingCost"`
	TotalAmount  float64     `json:"totalAmount"`
	OrderItems   []OrderItem `json:"orderItems"`
}

// WishlistEntry is one saved product.
type WishlistEntry struct {
	ID      int64   `json:"id"`
	Product Product `json:"product"`
}

// WishlistToggle is the response of the toggle endpoint.
type WishlistToggle struct {
	Success      bool   `json:"success"`
	IsInWishlist bool   `json:"isInWishlist"`
	Message      string `json:"message"`
}

// Review is one product review.
type Review struct {
	ID               int64  `json:"id"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment"`
	CreatedAt        string `json:"createdAt"`
	VerifiedPurchase bool   `json:"verifiedPurchase"`
	HelpfulCount     int    `json:"helpfulCount"`
	User             struct {
		Username string `json:"username"`
	} `json:"user"`
}

// ReviewStats is the aggregate rating payload for a product.
type ReviewStats struct {
	AverageRating      float64        `json:"averageRating"`
	ReviewCount        int            `json:"reviewCount"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}
