package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	checkoutapp "github.com/webshop-go/shop-backend/internal/checkout/app"
	orderdomain "github.com/webshop-go/shop-backend/internal/order/domain"
)

type cartData struct {
	Cart  cartdomain.Cart `json:"cart"`
	Total float64         `json:"total"`
}

type productRef struct {
	ID string `json:"id"`
	// Title, description and price may arrive from clients pushing their
	// local placeholder stubs; they are ignored.
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

type putCartItem struct {
	Product productRef `json:"product"`
	Count   int        `json:"count"`
}

type putCartRequest struct {
	Items []putCartItem `json:"items"`
}

type checkoutRequest struct {
	Payment  orderdomain.Payment  `json:"payment"`
	Delivery orderdomain.Delivery `json:"delivery"`
	Comments string               `json:"comments"`
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	cart, err := a.Carts.FindOrCreateForUser(r.Context(), userID)
	if err != nil {
		internalError(w, a.Log, r, err)
		return
	}

	writeOK(w, cartData{Cart: cart, Total: cart.Total()})
}

func (a *App) putCartHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req putCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid cart payload", nil)
		return
	}

	items := make([]cartdomain.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Product.ID == "" {
			writeEnvelope(w, http.StatusBadRequest, "Cart item is missing a product id", nil)
			return
		}
		items = append(items, cartdomain.CartItem{
			Product: cartdomain.Product{ID: it.Product.ID},
			Count:   it.Count,
		})
	}

	cart, err := a.Carts.ReplaceItemsForUser(r.Context(), userID, items)
	if err != nil {
		internalError(w, a.Log, r, err)
		return
	}

	writeOK(w, cartData{Cart: cart, Total: cart.Total()})
}

func (a *App) deleteCartHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	if err := a.Carts.ClearForUser(r.Context(), userID); err != nil {
		internalError(w, a.Log, r, err)
		return
	}

	writeOK(w, nil)
}

func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid checkout payload", nil)
		return
	}

	order, err := a.Checkout.Checkout(r.Context(), userID, checkoutapp.Payload{
		Payment:  req.Payment,
		Delivery: req.Delivery,
		Comments: req.Comments,
	})
	if errors.Is(err, checkoutapp.ErrEmptyCart) {
		writeEnvelope(w, http.StatusBadRequest, "Cart is empty", nil)
		return
	}
	if err != nil {
		internalError(w, a.Log, r, err)
		return
	}

	writeOK(w, map[string]any{"order": order})
}
