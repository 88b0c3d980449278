// Package catalog reads products from the remote product source.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/telemetry"
)

// Source is what the view models need from the product API.
type Source interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// Client is a plain HTTP client: no auth, no pagination and no retry. A
// failed call returns its error once.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ Source = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, target interface{}) (err error) {
	start := time.Now()
	defer func() { telemetry.ObserveCatalogFetch(endpoint, start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: bad status code: %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("GET %s: decode: %w", endpoint, err)
	}
	return nil
}

func (c *Client) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.fetchJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.fetchJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProduct looks a product up in the full listing; the source has no
// cheaper lookup the client relies on.
func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	products, err := c.GetProducts(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}
