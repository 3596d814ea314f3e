package httpapi

import (
	"errors"
	"net/http"

	"github.com/webshop-go/shop-backend/internal/importer"
)

// importProductsHandler hands out the path a CSV should be uploaded to,
// the local equivalent of the original's signed upload URL.
func (a *App) importProductsHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "File name is required as a query parameter"})
		return
	}

	path, err := a.Imports.UploadTarget(name)
	if errors.Is(err, importer.ErrBadFileName) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "File name is required as a query parameter"})
		return
	}
	if err != nil {
		a.Log.Error("upload target failed", "name", name, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to prepare upload target"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"uploadPath": path})
}
