package view

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/broadcast"
	"storefront/internal/models"

	"go.uber.org/zap"
)

type ProductsSnapshot struct {
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
	Selected   string           `json:"selected"`
	Loading    bool             `json:"loading"`
}

// Products is the browse screen: the full catalog behind a category filter.
type Products struct {
	source CatalogSource
	logger *zap.Logger

	pubMu   sync.Mutex
	mu      sync.Mutex
	listing *Listing
	loading bool

	changes broadcast.Topic[ProductsSnapshot]
}

func NewProducts(source CatalogSource, opts ...Option) *Products {
	o := buildOptions(opts)
	return &Products{
		source:  source,
		logger:  o.logger,
		listing: NewListing(nil, nil),
		loading: true,
	}
}

// Refresh fetches products then categories. Both must succeed for the
// listing to be replaced; the selected category is kept across refreshes.
func (p *Products) Refresh(ctx context.Context) error {
	products, err := p.source.GetProducts(ctx)
	if err != nil {
		return p.fail("products", err)
	}

	categories, err := p.source.GetCategories(ctx)
	if err != nil {
		return p.fail("categories", err)
	}

	p.commit(func() {
		selected := p.listing.Selected()
		p.listing = NewListing(products, categories)
		p.listing.SelectCategory(selected)
		p.loading = false
	})
	return nil
}

func (p *Products) fail(what string, err error) error {
	p.logger.Warn("Failed to fetch catalog", zap.String("resource", what), zap.Error(err))
	p.commit(func() { p.loading = false })
	return fmt.Errorf("fetch %s: %w", what, err)
}

// SelectCategory filters the listing and returns the visible products.
func (p *Products) SelectCategory(category string) []models.Product {
	var visible []models.Product
	p.commit(func() { visible = p.listing.SelectCategory(category) })
	return visible
}

// Product finds a product by ID in the full fetched set.
func (p *Products) Product(id int) (models.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, prod := range p.listing.products {
		if prod.ID == id {
			return prod, true
		}
	}
	return models.Product{}, false
}

func (p *Products) Snapshot() ProductsSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Products) Subscribe(fn func(ProductsSnapshot)) (cancel func()) {
	return p.changes.Subscribe(fn)
}

func (p *Products) snapshotLocked() ProductsSnapshot {
	return ProductsSnapshot{
		Products:   p.listing.Visible(),
		Categories: p.listing.Categories(),
		Selected:   p.listing.Selected(),
		Loading:    p.loading,
	}
}

func (p *Products) commit(mutate func()) {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	p.mu.Lock()
	mutate()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.changes.Publish(snap)
}
