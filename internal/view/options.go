package view

import (
	"context"
	"time"

	"storefront/internal/models"

	"go.uber.org/zap"
)

// ProductSource lists the products of the remote catalog.
type ProductSource interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogSource also reports the catalog's categories.
type CatalogSource interface {
	ProductSource
	GetCategories(ctx context.Context) ([]string, error)
}

type options struct {
	logger   *zap.Logger
	interval time.Duration
	viewport float64
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCarousel sets the tick interval and viewport width of the home
// carousel.
func WithCarousel(interval time.Duration, viewport float64) Option {
	return func(o *options) {
		o.interval = interval
		o.viewport = viewport
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   zap.NewNop(),
		interval: DefaultCarouselInterval,
		viewport: 390,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
