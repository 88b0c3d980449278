package catalog

import (
	"encoding/json"
	"net/http"

	"storefront/internal/models"
)

// Fixtures is a small offline catalog in the shape of the public fake store.
var Fixtures = []models.Product{
	{ID: 1, Title: "Fjallraven Foldsack No. 1 Backpack", Price: 109.95, Category: "men's clothing",
		Description: "Your perfect pack for everyday use and walks in the forest.",
		Image:       "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg"},
	{ID: 2, Title: "Mens Casual Premium Slim Fit T-Shirts", Price: 22.3, Category: "men's clothing",
		Description: "Slim-fitting style, contrast raglan long sleeve.",
		Image:       "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg"},
	{ID: 5, Title: "John Hardy Women's Legends Naga Bracelet", Price: 695, Category: "jewelery",
		Description: "From our Legends Collection, the Naga was inspired by the mythical water dragon.",
		Image:       "https://fakestoreapi.com/img/71pWzhdJNwL._AC_UL640_QL65_ML3_.jpg"},
	{ID: 9, Title: "WD 2TB Elements Portable External Hard Drive", Price: 64, Category: "electronics",
		Description: "USB 3.0 and USB 2.0 compatibility, fast data transfers.",
		Image:       "https://fakestoreapi.com/img/61IBBVJvSDL._AC_SY879_.jpg"},
	{ID: 18, Title: "MBJ Women's Solid Short Sleeve Boat Neck V", Price: 9.85, Category: "women's clothing",
		Description: "95% rayon 5% spandex, made in USA or imported.",
		Image:       "https://fakestoreapi.com/img/71z3kpMAYsL._AC_UY879_.jpg"},
}

// FixtureHandler serves Fixtures on the two product endpoints.
func FixtureHandler(products []models.Product) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, products)
	})

	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		seen := make(map[string]bool)
		categories := make([]string, 0)
		for _, p := range products {
			if !seen[p.Category] {
				seen[p.Category] = true
				categories = append(categories, p.Category)
			}
		}
		writeJSON(w, categories)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
