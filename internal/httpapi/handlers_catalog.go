package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	catalogapp "github.com/webshop-go/shop-backend/internal/catalog/app"
	catalogdomain "github.com/webshop-go/shop-backend/internal/catalog/domain"
)

// The catalog endpoints answer with bare JSON bodies rather than the cart
// envelope; clients of the product API predate it.

type createProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Count       *int     `json:"count"`
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.Catalog.ListProducts(r.Context())
	if err != nil {
		a.Log.Error("list products failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve products"})
		return
	}
	if products == nil {
		products = []catalogdomain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["productId"]

	product, err := a.Catalog.GetProduct(r.Context(), id)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
		return
	}
	if err != nil {
		a.Log.Error("get product failed", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve product"})
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *App) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid product payload"})
		return
	}
	if req.Title == "" || req.Price == nil || req.Count == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title, price, and count are required fields."})
		return
	}

	id, err := a.Catalog.CreateProduct(r.Context(), catalogdomain.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Count:       *req.Count,
	})
	if errors.Is(err, catalogapp.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title, price, and count are required fields."})
		return
	}
	if err != nil {
		a.Log.Error("create product failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error creating product"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Product created successfully",
		"id":      id,
	})
}
