package domain

import (
	"time"

	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
)

const StatusPending = "PENDING"

// Payment and Delivery come from the checkout caller and are stored as-is.
type Payment struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	CardEnd string `json:"card_end,omitempty"`
}

type Delivery struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
}

// Order is the terminal artifact of checkout: a snapshot of the cart merged
// with the caller-supplied fields.
type Order struct {
	ID        string                `json:"id"`
	UserID    string                `json:"userId"`
	CartID    string                `json:"cartId"`
	Items     []cartdomain.CartItem `json:"items"`
	Payment   Payment               `json:"payment"`
	Delivery  Delivery              `json:"delivery"`
	Comments  string                `json:"comments"`
	Status    string                `json:"status"`
	Total     float64               `json:"total"`
	CreatedAt time.Time             `json:"created_at"`
}

// CreateOrderRequest carries everything needed to persist a new order.
type CreateOrderRequest struct {
	UserID   string
	CartID   string
	Items    []cartdomain.CartItem
	Payment  Payment
	Delivery Delivery
	Comments string
	Total    float64
}
