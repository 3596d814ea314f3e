// Package cartclient keeps a local quantity-by-product view of the server
// cart. The map is a cache, not the source of truth: every mutation pushes
// the complete desired item list and the local state is then overwritten
// with whatever the server returned.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"
)

const cartPath = "/api/profile/cart"

type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client

	mu         sync.Mutex
	quantities map[string]int
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		http:       http.DefaultClient,
		quantities: map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quantities returns a copy of the local view.
func (c *Client) Quantities() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.quantities))
	for id, n := range c.quantities {
		out[id] = n
	}
	return out
}

// TotalCount is the derived badge value: the sum of all quantities.
func (c *Client) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int
	for _, n := range c.quantities {
		total += n
	}
	return total
}

// Load fetches the server cart and seeds the local view from it.
func (c *Client) Load(ctx context.Context) error {
	var resp cartResponse
	if err := c.call(ctx, http.MethodGet, cartPath, nil, &resp); err != nil {
		return err
	}
	c.replaceFromServer(resp)
	return nil
}

// AddItem increments the product locally, pushes the entire resulting list,
// and then replaces the local view with the server's answer. The local
// increment is only a proposal; the server response wins.
func (c *Client) AddItem(ctx context.Context, productID string) error {
	next := c.Quantities()
	next[productID]++
	return c.sync(ctx, next)
}

// RemoveItem decrements the product and drops it at zero. Unknown products
// are ignored.
func (c *Client) RemoveItem(ctx context.Context, productID string) error {
	next := c.Quantities()
	if next[productID] == 0 {
		return nil
	}
	next[productID]--
	if next[productID] <= 0 {
		delete(next, productID)
	}
	return c.sync(ctx, next)
}

// Clear empties the server cart first and resets the local view only once
// the server confirmed.
func (c *Client) Clear(ctx context.Context) error {
	if err := c.call(ctx, http.MethodDelete, cartPath, nil, nil); err != nil {
		return err
	}
	c.reset()
	return nil
}

// Checkout submits the order payload. The server clears its cart as part of
// checkout, so on success the local view is reset to match.
func (c *Client) Checkout(ctx context.Context, payload any) error {
	if err := c.call(ctx, http.MethodPost, cartPath+"/checkout", payload, nil); err != nil {
		return err
	}
	c.reset()
	return nil
}

type wireProduct struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type wireItem struct {
	Product wireProduct `json:"product"`
	Count   int         `json:"count"`
}

type cartResponse struct {
	Data struct {
		Cart struct {
			Items []wireItem `json:"items"`
		} `json:"cart"`
	} `json:"data"`
}

func (c *Client) sync(ctx context.Context, next map[string]int) error {
	items := make([]wireItem, 0, len(next))
	for id, count := range next {
		items = append(items, wireItem{
			// Placeholder data; the server only reads the id.
			Product: wireProduct{ID: id, Title: "Temporary", Price: 10},
			Count:   count,
		})
	}

	var resp cartResponse
	if err := c.call(ctx, http.MethodPut, cartPath, map[string]any{"items": items}, &resp); err != nil {
		return err
	}
	c.replaceFromServer(resp)
	return nil
}

func (c *Client) replaceFromServer(resp cartResponse) {
	fresh := map[string]int{}
	for _, it := range resp.Data.Cart.Items {
		fresh[it.Product.ID] = it.Count
	}
	c.mu.Lock()
	c.quantities = fresh
	c.mu.Unlock()
}

func (c *Client) reset() {
	c.mu.Lock()
	c.quantities = map[string]int{}
	c.mu.Unlock()
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "call cart api")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

func apiError(resp *http.Response) error {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
		return fmt.Errorf("cart api: %s (status %d)", env.Message, resp.StatusCode)
	}
	return fmt.Errorf("cart api: status %d", resp.StatusCode)
}
