package domain

import (
	"fmt"
	"time"
)

type CartStatus string

const (
	CartStatusOpen    CartStatus = "OPEN"
	CartStatusOrdered CartStatus = "ORDERED"
)

// Product is the cart's view of a catalog record. When items are read back
// from storage only the product id survives; the rest is filled in by
// PlaceholderProduct.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type CartItem struct {
	Product Product `json:"product"`
	Count   int     `json:"count"`
}

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Status    CartStatus `json:"status"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total sums count times unit price over the items. With placeholder
// products the price is a fixed stand-in, so the total does not reflect
// catalog prices.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += float64(it.Count) * it.Product.Price
	}
	return total
}

// PlaceholderPrice is the fixed stand-in price used when cart items are
// rehydrated without a catalog lookup.
const PlaceholderPrice = 10

// PlaceholderProduct fabricates product data for a stored cart item. Cart
// items persist only the product id; title, description and price are
// synthesized here instead of being read from the catalog.
func PlaceholderProduct(productID string) Product {
	return Product{
		ID:          productID,
		Title:       fmt.Sprintf("Product %s", productID),
		Description: fmt.Sprintf("Description for product %s", productID),
		Price:       PlaceholderPrice,
	}
}
