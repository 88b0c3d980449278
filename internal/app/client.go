// Package app wires the client state and services into one owned object that
// front-ends construct once and pass around.
package app

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/kvstore"
	"storefront/internal/orders"
	"storefront/internal/preference"
	"storefront/internal/receipt"
	"storefront/internal/session"
	"storefront/internal/view"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Client struct {
	Config *config.Config
	Logger *zap.Logger

	Store    kvstore.Store
	Issuer   auth.Issuer
	Session  *session.Store
	Theme    *preference.Store
	Catalog  *catalog.Client
	Cart     *cart.Cart
	Orders   *orders.History
	Checkout *orders.Checkout
	Receipts *receipt.Service

	initOnce sync.Once
}

// New opens the configured device store and builds a client over it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	kv, err := kvstore.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	c, err := NewWithStore(ctx, cfg, kv, logger)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return c, nil
}

// NewWithStore builds a client over an already opened store. The client owns
// kv from here on and closes it in Close.
func NewWithStore(ctx context.Context, cfg *config.Config, kv kvstore.Store, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	issuer, err := newIssuer(cfg)
	if err != nil {
		return nil, err
	}

	receipts, err := receipt.NewServiceFromConfig(ctx, cfg, logger.Named("receipt"))
	if err != nil {
		return nil, fmt.Errorf("receipt service: %w", err)
	}

	basket := cart.New()
	history := orders.NewHistory(kv, orders.WithHistoryLogger(logger.Named("orders")))

	return &Client{
		Config:  cfg,
		Logger:  logger,
		Store:   kv,
		Issuer:  issuer,
		Session: session.New(kv, session.WithIssuer(issuer), session.WithLogger(logger.Named("session"))),
		Theme:   preference.New(kv, preference.WithLogger(logger.Named("theme"))),
		Catalog: catalog.NewClient(cfg.ProductAPIURL, cfg.FetchTimeout),
		Cart:    basket,
		Orders:  history,
		Checkout: orders.NewCheckout(history,
			orders.WithCart(basket),
			orders.WithCheckoutLogger(logger.Named("checkout")),
		),
		Receipts: receipts,
	}, nil
}

func newIssuer(cfg *config.Config) (auth.Issuer, error) {
	switch cfg.TokenMode {
	case config.TokenPlaceholder, "":
		return auth.PlaceholderIssuer{}, nil
	case config.TokenJWT:
		return auth.NewJWTIssuer(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown token mode: %s", cfg.TokenMode)
	}
}

// Init runs the session and theme loads concurrently. Only the first call
// does any work; later calls return immediately.
func (c *Client) Init(ctx context.Context) error {
	var err error
	c.initOnce.Do(func() {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			c.Session.Load(gctx)
			return nil
		})
		g.Go(func() error {
			c.Theme.Load(gctx)
			return nil
		})

		err = g.Wait()
		c.Logger.Debug("Client state loaded",
			zap.Stringer("session", c.Session.State()),
			zap.Bool("dark_mode", c.Theme.DarkMode()),
		)
	})
	return err
}

// HomeView builds a home screen model with the configured carousel.
func (c *Client) HomeView() *view.Home {
	return view.NewHome(c.Catalog,
		view.WithCarousel(c.Config.CarouselInterval, c.Config.ViewportWidth),
		view.WithLogger(c.Logger.Named("home")),
	)
}

func (c *Client) ProductsView() *view.Products {
	return view.NewProducts(c.Catalog, view.WithLogger(c.Logger.Named("products")))
}

// Close releases the device store.
func (c *Client) Close() error {
	return c.Store.Close()
}
