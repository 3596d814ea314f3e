package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cartapp "github.com/webshop-go/shop-backend/internal/cart/app"
	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	catalogapp "github.com/webshop-go/shop-backend/internal/catalog/app"
	catalogdomain "github.com/webshop-go/shop-backend/internal/catalog/domain"
	checkoutapp "github.com/webshop-go/shop-backend/internal/checkout/app"
	orderapp "github.com/webshop-go/shop-backend/internal/order/app"
	orderdomain "github.com/webshop-go/shop-backend/internal/order/domain"
	"github.com/webshop-go/shop-backend/pkg/logger"
)

const (
	testUser = "shopper"
	testPass = "TEST_PASSWORD"
)

type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]*cartdomain.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]*cartdomain.Cart{}}
}

func (f *memCartRepo) GetOpenByUser(_ context.Context, userID string) (cartdomain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return cartdomain.Cart{}, cartapp.ErrNotFound
	}
	return *c, nil
}

func (f *memCartRepo) CreateOpen(_ context.Context, userID string) (cartdomain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[userID]; ok {
		return cartdomain.Cart{}, cartapp.ErrAlreadyExists
	}
	c := &cartdomain.Cart{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: cartdomain.CartStatusOpen,
		Items:  []cartdomain.CartItem{},
	}
	f.carts[userID] = c
	return *c, nil
}

func (f *memCartRepo) ReplaceItems(_ context.Context, cartID string, items []cartdomain.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.ID == cartID {
			next := make([]cartdomain.CartItem, 0, len(items))
			for _, it := range items {
				next = append(next, cartdomain.CartItem{
					Product: cartdomain.PlaceholderProduct(it.Product.ID),
					Count:   it.Count,
				})
			}
			c.Items = next
			return nil
		}
	}
	return cartapp.ErrNotFound
}

func (f *memCartRepo) Delete(_ context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, c := range f.carts {
		if c.ID == cartID {
			delete(f.carts, userID)
			return nil
		}
	}
	return cartapp.ErrNotFound
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []orderdomain.Order
}

func (f *memOrderRepo) Create(_ context.Context, order orderdomain.Order) (orderdomain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = uuid.NewString()
	f.orders = append(f.orders, order)
	return order, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products []catalogdomain.Product
}

func (f *memProductRepo) List(_ context.Context) ([]catalogdomain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalogdomain.Product(nil), f.products...), nil
}

func (f *memProductRepo) Get(_ context.Context, id string) (catalogdomain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalogdomain.Product{}, catalogapp.ErrNotFound
}

func (f *memProductRepo) Create(_ context.Context, p catalogdomain.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	f.products = append(f.products, p)
	return p.ID, nil
}

type fixedImports struct{}

func (fixedImports) UploadTarget(name string) (string, error) {
	return "/import/uploaded/" + name, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memOrderRepo) {
	t.Helper()

	cartSvc := cartapp.NewService(newMemCartRepo())
	orderRepo := &memOrderRepo{}
	orderSvc := orderapp.NewService(orderRepo)
	checkoutSvc := checkoutapp.NewService(cartSvc, orderSvc)
	catalogSvc := catalogapp.NewService(&memProductRepo{})

	app := NewApp(cartSvc, checkoutSvc, catalogSvc, fixedImports{},
		Credentials{Username: testUser, Password: testPass}, logger.Discard())

	srv := httptest.NewServer(NewRouter(app))
	t.Cleanup(srv.Close)
	return srv, orderRepo
}

func doJSON(t *testing.T, method, url string, body any, auth bool) (*http.Response, envelopeBody) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if auth {
		req.SetBasicAuth(testUser, testPass)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env envelopeBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

type envelopeBody struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type cartPayloadBody struct {
	Cart  cartdomain.Cart `json:"cart"`
	Total float64         `json:"total"`
}

func putItems(items map[string]int) map[string]any {
	list := make([]map[string]any, 0, len(items))
	for id, count := range items {
		list = append(list, map[string]any{
			"product": map[string]any{"id": id},
			"count":   count,
		})
	}
	return map[string]any{"items": list}
}

func itemSet(c cartdomain.Cart) map[string]int {
	out := map[string]int{}
	for _, it := range c.Items {
		out[it.Product.ID] = it.Count
	}
	return out
}

func TestCartEndToEnd(t *testing.T) {
	srv, orders := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	// First GET creates an empty open cart.
	resp, env := doJSON(t, http.MethodGet, cartURL, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var data cartPayloadBody
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Empty(t, data.Cart.Items)
	require.Equal(t, float64(0), data.Total)

	// PUT replaces the item set.
	resp, env = doJSON(t, http.MethodPut, cartURL, putItems(map[string]int{"p1": 2}), true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, map[string]int{"p1": 2}, itemSet(data.Cart))
	require.Equal(t, float64(2*cartdomain.PlaceholderPrice), data.Total)

	// GET reflects the replacement.
	resp, env = doJSON(t, http.MethodGet, cartURL, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, map[string]int{"p1": 2}, itemSet(data.Cart))
	cartID := data.Cart.ID

	// Checkout converts the cart into an order.
	resp, env = doJSON(t, http.MethodPost, cartURL+"/checkout", map[string]any{
		"comments": "ring twice",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var orderData struct {
		Order orderdomain.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orderData))
	require.Equal(t, cartID, orderData.Order.CartID)
	require.Equal(t, testUser, orderData.Order.UserID)
	require.Len(t, orderData.Order.Items, 1)
	require.Equal(t, float64(2*cartdomain.PlaceholderPrice), orderData.Order.Total)
	require.Len(t, orders.orders, 1)

	// A fresh, empty cart afterwards.
	resp, env = doJSON(t, http.MethodGet, cartURL, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Empty(t, data.Cart.Items)
	require.NotEqual(t, cartID, data.Cart.ID)
}

func TestPutTwiceKeepsOnlySecondList(t *testing.T) {
	srv, _ := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	// Create the cart first; a PUT with no open cart yields an empty one.
	_, _ = doJSON(t, http.MethodGet, cartURL, nil, true)

	_, env := doJSON(t, http.MethodPut, cartURL, putItems(map[string]int{"p1": 2, "p2": 1}), true)
	var data cartPayloadBody
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, map[string]int{"p1": 2, "p2": 1}, itemSet(data.Cart))

	_, env = doJSON(t, http.MethodPut, cartURL, putItems(map[string]int{"p3": 4}), true)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, map[string]int{"p3": 4}, itemSet(data.Cart))
}

func TestCheckoutEmptyCart(t *testing.T) {
	srv, orders := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	// No cart at all.
	resp, env := doJSON(t, http.MethodPost, cartURL+"/checkout", map[string]any{}, true)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cart is empty", env.Message)
	require.Empty(t, orders.orders)

	// Cart exists but holds nothing.
	_, _ = doJSON(t, http.MethodGet, cartURL, nil, true)
	resp, env = doJSON(t, http.MethodPost, cartURL+"/checkout", map[string]any{}, true)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cart is empty", env.Message)
	require.Empty(t, orders.orders)
}

func TestDeleteCart(t *testing.T) {
	srv, _ := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	_, _ = doJSON(t, http.MethodGet, cartURL, nil, true)
	_, _ = doJSON(t, http.MethodPut, cartURL, putItems(map[string]int{"p1": 1}), true)

	resp, env := doJSON(t, http.MethodDelete, cartURL, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", env.Message)

	// The next GET serves a brand new empty cart.
	_, env = doJSON(t, http.MethodGet, cartURL, nil, true)
	var data cartPayloadBody
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Empty(t, data.Cart.Items)
}

func TestPutRejectsMissingProductID(t *testing.T) {
	srv, _ := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	resp, env := doJSON(t, http.MethodPut, cartURL, map[string]any{
		"items": []map[string]any{{"count": 2}},
	}, true)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cart item is missing a product id", env.Message)
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	cartURL := srv.URL + "/api/profile/cart"

	t.Run("missing header -> 401", func(t *testing.T) {
		resp, err := http.Get(cartURL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong credentials -> 403", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, cartURL, nil)
		require.NoError(t, err)
		req.SetBasicAuth(testUser, "wrong")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("catalog reads stay public", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/products")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCatalogHandlers(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("create requires title price count", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"title": "Keyboard"})
		resp, err := http.Post(srv.URL+"/products", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Equal(t, "Title, price, and count are required fields.", out["message"])
	})

	t.Run("create then fetch", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"title": "Keyboard", "description": "Clicky", "price": 49.99, "count": 50,
		})
		resp, err := http.Post(srv.URL+"/products", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		require.Equal(t, "Product created successfully", created["message"])
		require.NotEmpty(t, created["id"])

		getResp, err := http.Get(fmt.Sprintf("%s/products/%s", srv.URL, created["id"]))
		require.NoError(t, err)
		defer getResp.Body.Close()
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		var p catalogdomain.Product
		require.NoError(t, json.NewDecoder(getResp.Body).Decode(&p))
		require.Equal(t, "Keyboard", p.Title)
		require.Equal(t, 49.99, p.Price)
		require.Equal(t, 50, p.Count)
	})

	t.Run("unknown product -> 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/products/" + uuid.NewString())
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestImportHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("missing name -> 400", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/import", nil)
		req.SetBasicAuth(testUser, testPass)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("name -> upload path", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/import?name=products.csv", nil)
		req.SetBasicAuth(testUser, testPass)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Equal(t, "/import/uploaded/products.csv", out["uploadPath"])
	})
}
