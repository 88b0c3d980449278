// Package api exposes the client core as a local JSON API for an external
// view layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/app"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/receipt"
	"storefront/internal/view"

	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("please enter both fields")
	ErrProductNotFound    = errors.New("product not found")
)

type Handler struct {
	client   *app.Client
	home     *view.Home
	products *view.Products
	logger   *zap.Logger
}

func NewHandler(client *app.Client, home *view.Home, products *view.Products) *Handler {
	return &Handler{
		client:   client,
		home:     home,
		products: products,
		logger:   client.Logger.Named("api"),
	}
}

type sessionResponse struct {
	State         string          `json:"state"`
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	Profile       *models.Profile `json:"profile"`
	AccessToken   string          `json:"accessToken,omitempty"`
}

func (h *Handler) sessionResponse(withToken bool) sessionResponse {
	snap := h.client.Session.Snapshot()
	resp := sessionResponse{
		State:         h.client.Session.State().String(),
		Authenticated: snap.Authenticated(),
		Loading:       snap.Loading,
		Profile:       snap.Profile,
	}
	if withToken {
		resp.AccessToken = snap.AccessToken
	}
	return resp
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse(false))
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, ErrMissingCredentials)
		return
	}

	if err := h.client.Session.Login(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(true))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, ErrMissingCredentials)
		return
	}

	if err := h.client.Session.Signup(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(true))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Session.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(false))
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if !decodeBody(w, r, &profile) {
		return
	}
	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.client.Session.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(false))
}

type themeResponse struct {
	DarkMode bool `json:"darkMode"`
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{DarkMode: h.client.Theme.DarkMode()})
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := h.client.Theme.Toggle(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{DarkMode: h.client.Theme.DarkMode()})
}

// refreshProducts fetches the catalog on first use or when asked with
// ?refresh=true. A failed fetch leaves the stale listing in place.
func (h *Handler) refreshProducts(r *http.Request) {
	if !h.products.Snapshot().Loading && r.URL.Query().Get("refresh") != "true" {
		return
	}
	if err := h.products.Refresh(r.Context()); err != nil {
		h.logger.Warn("Serving stale catalog", zap.Error(err))
	}
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	h.refreshProducts(r)

	if category := r.URL.Query().Get("category"); category != "" {
		h.products.SelectCategory(category)
	}
	writeJSON(w, http.StatusOK, h.products.Snapshot())
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.refreshProducts(r)
	writeJSON(w, http.StatusOK, h.products.Snapshot().Categories)
}

func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	if h.home.Snapshot().Loading || r.URL.Query().Get("refresh") == "true" {
		if err := h.home.Refresh(r.Context()); err != nil {
			h.logger.Warn("Serving stale featured products", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, struct {
		view.HomeSnapshot
		DarkMode bool `json:"darkMode"`
	}{h.home.Snapshot(), h.client.Theme.DarkMode()})
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	h.home.SetFeedback(req.Text)
	if _, err := h.home.SubmitFeedback(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Thank you for your feedback!"})
}

type cartResponse struct {
	Items []models.Product `json:"items"`
	Total float64          `json:"total"`
}

func (h *Handler) cartResponse() cartResponse {
	return cartResponse{Items: h.client.Cart.Items(), Total: h.client.Cart.Total()}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *Handler) lookupProduct(r *http.Request, id int) (models.Product, bool) {
	h.refreshProducts(r)
	return h.products.Product(id)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"productId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	product, ok := h.lookupProduct(r, req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrProductNotFound)
		return
	}

	h.client.Cart.Add(product)
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	if !h.client.Cart.Remove(id) {
		writeError(w, http.StatusNotFound, ErrProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.client.Orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int          `json:"productId"`
		Buyer     models.Buyer `json:"buyer"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	product, ok := h.lookupProduct(r, req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrProductNotFound)
		return
	}

	order, err := h.client.Checkout.Place(r.Context(), product, req.Buyer)
	switch {
	case errors.Is(err, orders.ErrMissingBuyerDetails):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusCreated, order)
	}
}

func (h *Handler) orderAt(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order index"))
		return models.Order{}, false
	}

	order, err := h.client.Orders.Get(r.Context(), index)
	if err != nil {
		writeOrderError(w, err)
		return models.Order{}, false
	}
	return order, true
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orderAt(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Order  models.Order    `json:"order"`
		Fields []receipt.Field `json:"fields"`
	}{order, receipt.Fields(order)})
}

func (h *Handler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order index"))
		return
	}

	remaining, err := h.client.Orders.Remove(r.Context(), index)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, remaining)
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orderAt(w, r)
	if !ok {
		return
	}

	html, err := receipt.Render(order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *Handler) ShareReceipt(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orderAt(w, r)
	if !ok {
		return
	}

	location, err := h.client.Receipts.Share(r.Context(), order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New(receipt.FailureMessage))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"location": location})
}

func writeOrderError(w http.ResponseWriter, err error) {
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
