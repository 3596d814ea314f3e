package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires routes and middleware. Catalog reads are public; the
// cart and import surfaces sit behind the shared credential.
func NewRouter(app *App) http.Handler {
	r := mux.NewRouter()
	r.Use(WithRequestID, WithLogging(app.Log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/products", app.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products", app.createProductHandler).Methods(http.MethodPost)
	r.HandleFunc("/products/{productId}", app.getProductHandler).Methods(http.MethodGet)

	cart := r.PathPrefix("/api/profile/cart").Subrouter()
	cart.Use(app.BasicAuth)
	cart.HandleFunc("", app.getCartHandler).Methods(http.MethodGet)
	cart.HandleFunc("", app.putCartHandler).Methods(http.MethodPut)
	cart.HandleFunc("", app.deleteCartHandler).Methods(http.MethodDelete)
	cart.HandleFunc("/checkout", app.checkoutHandler).Methods(http.MethodPost)

	imports := r.PathPrefix("/import").Subrouter()
	imports.Use(app.BasicAuth)
	imports.HandleFunc("", app.importProductsHandler).Methods(http.MethodGet)

	return r
}
