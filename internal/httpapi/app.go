package httpapi

import (
	"context"
	"log/slog"

	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	catalogdomain "github.com/webshop-go/shop-backend/internal/catalog/domain"
	checkoutapp "github.com/webshop-go/shop-backend/internal/checkout/app"
	orderdomain "github.com/webshop-go/shop-backend/internal/order/domain"
)

type CartService interface {
	FindOrCreateForUser(ctx context.Context, userID string) (cartdomain.Cart, error)
	ReplaceItemsForUser(ctx context.Context, userID string, items []cartdomain.CartItem) (cartdomain.Cart, error)
	ClearForUser(ctx context.Context, userID string) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, payload checkoutapp.Payload) (orderdomain.Order, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]catalogdomain.Product, error)
	GetProduct(ctx context.Context, id string) (catalogdomain.Product, error)
	CreateProduct(ctx context.Context, p catalogdomain.Product) (string, error)
}

type ImportService interface {
	UploadTarget(name string) (string, error)
}

// Credentials is the single shared identity the API accepts. The username
// doubles as the cart owner id.
type Credentials struct {
	Username string
	Password string
}

type App struct {
	Carts    CartService
	Checkout CheckoutService
	Catalog  CatalogService
	Imports  ImportService
	Creds    Credentials
	Log      *slog.Logger
}

func NewApp(carts CartService, checkout CheckoutService, catalog CatalogService, imports ImportService, creds Credentials, log *slog.Logger) *App {
	return &App{
		Carts:    carts,
		Checkout: checkout,
		Catalog:  catalog,
		Imports:  imports,
		Creds:    creds,
		Log:      log,
	}
}
