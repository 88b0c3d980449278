package api

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/telemetry"
)

// Routes registers the API on a new mux. Profile edits and checkout need the
// bearer token of the signed-in session.
func (h *Handler) Routes() *http.ServeMux {
	guard := auth.NewMiddleware(h.client.Issuer, h.client.Session.Token, h.logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/session", h.GetSession)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/signup", h.Signup)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("PUT /api/profile", guard.RequireSession(h.SaveProfile))

	mux.HandleFunc("GET /api/theme", h.GetTheme)
	mux.HandleFunc("POST /api/theme/toggle", h.ToggleTheme)

	mux.HandleFunc("GET /api/products", h.GetProducts)
	mux.HandleFunc("GET /api/categories", h.GetCategories)
	mux.HandleFunc("GET /api/home", h.GetHome)
	mux.HandleFunc("POST /api/feedback", h.SubmitFeedback)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart", h.AddToCart)
	mux.HandleFunc("DELETE /api/cart/{id}", h.RemoveFromCart)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", guard.RequireSession(h.PlaceOrder))
	mux.HandleFunc("GET /api/orders/{index}", h.GetOrder)
	mux.HandleFunc("DELETE /api/orders/{index}", h.RemoveOrder)
	mux.HandleFunc("GET /api/orders/{index}/receipt", h.GetReceipt)
	mux.HandleFunc("POST /api/orders/{index}/receipt", h.ShareReceipt)

	return mux
}

// Handler returns the routes wrapped in request metrics.
func (h *Handler) Handler() http.Handler {
	return telemetry.Middleware(h.Routes())
}
