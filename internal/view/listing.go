// Package view holds the derived state behind the product screens: the
// category filter, the featured-products carousel and the two screen models
// that own them.
package view

import "storefront/internal/models"

// AllCategories selects the unfiltered product set.
const AllCategories = "All"

// Listing is the full fetched product set plus the selected category. It is
// not safe for concurrent use; Products guards it.
type Listing struct {
	products []models.Product
	remote   []string
	selected string
	visible  []models.Product
}

// NewListing builds a listing with AllCategories selected. remote is the
// category list reported by the product source and may be nil.
func NewListing(products []models.Product, remote []string) *Listing {
	l := &Listing{
		products: products,
		remote:   remote,
	}
	l.SelectCategory(AllCategories)
	return l
}

// SelectCategory records category and returns the visible products.
func (l *Listing) SelectCategory(category string) []models.Product {
	l.selected = category
	l.visible = Filter(l.products, category)
	return l.Visible()
}

func (l *Listing) Selected() string {
	return l.selected
}

func (l *Listing) Visible() []models.Product {
	out := make([]models.Product, len(l.visible))
	copy(out, l.visible)
	return out
}

func (l *Listing) All() []models.Product {
	out := make([]models.Product, len(l.products))
	copy(out, l.products)
	return out
}

// Categories is AllCategories followed by the remote list when one was
// supplied, otherwise by the distinct categories of the product set in fetch
// order.
func (l *Listing) Categories() []string {
	if len(l.remote) > 0 {
		return append([]string{AllCategories}, l.remote...)
	}

	out := []string{AllCategories}
	seen := make(map[string]bool)
	for _, p := range l.products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Filter returns the products in category, preserving order. AllCategories
// returns a copy of the whole set; an unknown category yields an empty,
// non-nil slice.
func Filter(products []models.Product, category string) []models.Product {
	if category == AllCategories {
		out := make([]models.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]models.Product, 0)
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
