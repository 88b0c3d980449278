package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/api"
	"storefront/internal/app"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/kvstore"
	"storefront/internal/kvstore/fakestore"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	kv     *fakestore.FakeStore
	client *app.Client
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	upstream := httptest.NewServer(catalog.FixtureHandler(catalog.Fixtures))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.StoreBackend = config.BackendMemory
	cfg.ProductAPIURL = upstream.URL
	cfg.ReceiptDir = t.TempDir()

	kv := fakestore.New()
	client, err := app.NewWithStore(context.Background(), cfg, kv, nil)
	require.NoError(t, err)
	require.NoError(t, client.Init(context.Background()))

	home := client.HomeView()
	t.Cleanup(home.Close)

	h := api.NewHandler(client, home, client.ProductsView())
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)

	return &testServer{t: t, srv: srv, kv: kv, client: client}
}

func (ts *testServer) do(method, path string, body any) (*http.Response, []byte) {
	ts.t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, r)
	require.NoError(ts.t, err)
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(ts.t, err)
	return resp, data
}

func (ts *testServer) login() {
	resp, data := ts.do(http.MethodPost, "/api/login", map[string]string{"username": "asha", "password": "pw"})
	require.Equal(ts.t, http.StatusOK, resp.StatusCode, string(data))

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(ts.t, json.Unmarshal(data, &out))
	ts.token = out.AccessToken
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, data := ts.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"state":"anonymous","authenticated":false,"loading":false,"profile":null}`, string(data))

	resp, data = ts.do(http.MethodPost, "/api/login", map[string]string{"username": "", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "please enter both fields")

	ts.login()
	assert.Equal(t, "dummy-token", ts.token)
	stored, _ := ts.kv.Value(kvstore.KeyToken)
	assert.Equal(t, "dummy-token", stored)

	profile := models.Profile{Name: "Asha", Email: "a@x.in", Phone: "99", Address: "Pune"}
	resp, _ = ts.do(http.MethodPut, "/api/profile", profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Asha", ts.client.Session.Snapshot().Profile.Name)

	resp, data = ts.do(http.MethodPut, "/api/profile", models.Profile{Name: "Asha"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), models.ErrMissingFields.Error())

	resp, _ = ts.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, ok := ts.kv.Value(kvstore.KeyToken)
	assert.False(t, ok)
	_, ok = ts.kv.Value(kvstore.KeyUserInfo)
	assert.False(t, ok)

	resp, _ = ts.do(http.MethodPut, "/api/profile", profile)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(http.MethodPost, "/api/signup", map[string]string{"email": "a@x.in", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, ts.client.Session.Snapshot().Authenticated())
}

func TestProfileRequiresBearer(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(http.MethodPut, "/api/profile", models.Profile{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTheme(t *testing.T) {
	ts := newTestServer(t)

	_, data := ts.do(http.MethodGet, "/api/theme", nil)
	assert.JSONEq(t, `{"darkMode":false}`, string(data))

	resp, data := ts.do(http.MethodPost, "/api/theme/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"darkMode":true}`, string(data))

	ts.kv.FailSet(kvstore.KeyDarkMode, errors.New("read-only"))
	resp, _ = ts.do(http.MethodPost, "/api/theme/toggle", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, ts.client.Theme.DarkMode())
}

func TestProductsAndCategories(t *testing.T) {
	ts := newTestServer(t)

	resp, data := ts.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap struct {
		Products   []models.Product `json:"products"`
		Categories []string         `json:"categories"`
		Selected   string           `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Len(t, snap.Products, len(catalog.Fixtures))
	assert.Equal(t, "All", snap.Selected)
	assert.Equal(t, "All", snap.Categories[0])

	_, data = ts.do(http.MethodGet, "/api/products?category=electronics", nil)
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 9, snap.Products[0].ID)

	_, data = ts.do(http.MethodGet, "/api/categories", nil)
	var categories []string
	require.NoError(t, json.Unmarshal(data, &categories))
	assert.Equal(t, []string{"All", "men's clothing", "jewelery", "electronics", "women's clothing"}, categories)
}

func TestHomeAndFeedback(t *testing.T) {
	ts := newTestServer(t)

	resp, data := ts.do(http.MethodGet, "/api/home", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var home struct {
		Featured []models.Product `json:"featured"`
		Loading  bool             `json:"loading"`
		DarkMode bool             `json:"darkMode"`
	}
	require.NoError(t, json.Unmarshal(data, &home))
	assert.Len(t, home.Featured, len(catalog.Fixtures))
	assert.False(t, home.Loading)

	resp, _ = ts.do(http.MethodPost, "/api/feedback", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = ts.do(http.MethodPost, "/api/feedback", map[string]string{"text": "love it"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Thank you for your feedback!")
}

func TestCartAndCheckout(t *testing.T) {
	ts := newTestServer(t)

	resp, data := ts.do(http.MethodPost, "/api/cart", map[string]int{"productId": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	resp, _ = ts.do(http.MethodPost, "/api/cart", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(http.MethodPost, "/api/cart", map[string]int{"productId": 404})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, data = ts.do(http.MethodGet, "/api/cart", nil)
	var cart struct {
		Items []models.Product `json:"items"`
		Total float64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &cart))
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 804.95, cart.Total, 1e-9)

	checkout := map[string]any{
		"productId": 5,
		"buyer":     models.Buyer{Name: "Asha", Address: "Pune", PaymentMethod: "UPI"},
	}
	resp, _ = ts.do(http.MethodPost, "/api/orders", checkout)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ts.login()
	resp, _ = ts.do(http.MethodPost, "/api/orders", map[string]any{"productId": 5, "buyer": models.Buyer{Name: "Asha"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = ts.do(http.MethodPost, "/api/orders", checkout)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var placed models.Order
	require.NoError(t, json.Unmarshal(data, &placed))
	assert.Equal(t, 5, placed.Product.ID)
	assert.False(t, ts.client.Cart.Contains(5))

	resp, _ = ts.do(http.MethodDelete, "/api/cart/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.do(http.MethodDelete, "/api/cart/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrdersAndReceipts(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	for _, id := range []int{1, 9} {
		resp, _ := ts.do(http.MethodPost, "/api/orders", map[string]any{
			"productId": id,
			"buyer":     models.Buyer{Name: "Asha", Address: "Pune", PaymentMethod: "UPI"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	_, data := ts.do(http.MethodGet, "/api/orders", nil)
	var list []models.Order
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)

	resp, data := ts.do(http.MethodGet, "/api/orders/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"label":"Delivery Address"`)

	resp, data = ts.do(http.MethodGet, "/api/orders/0/receipt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(data), "Payment Receipt")

	resp, data = ts.do(http.MethodPost, "/api/orders/0/receipt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, string(data), "receipt_"+list[0].ID+".html")

	resp, _ = ts.do(http.MethodGet, "/api/orders/7/receipt", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(http.MethodDelete, "/api/orders/x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = ts.do(http.MethodDelete, "/api/orders/0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 9, list[0].Product.ID)
}

func TestInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/api/login", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
