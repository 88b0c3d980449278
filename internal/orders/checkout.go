package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateLayout is the ISO-8601 UTC form orders are stamped with.
const DateLayout = "2006-01-02T15:04:05.000Z"

var ErrMissingBuyerDetails = errors.New("please fill in all buyer details")

// Checkout turns a product and buyer details into a stored order.
type Checkout struct {
	history *History
	cart    *cart.Cart
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

type CheckoutOption func(*Checkout)

// WithCart removes purchased products from c.
func WithCart(c *cart.Cart) CheckoutOption {
	return func(co *Checkout) { co.cart = c }
}

func WithCheckoutLogger(logger *zap.Logger) CheckoutOption {
	return func(co *Checkout) { co.logger = logger }
}

func WithNowTime(now func() time.Time) CheckoutOption {
	return func(co *Checkout) { co.now = now }
}

func WithIDGenerator(newID func() string) CheckoutOption {
	return func(co *Checkout) { co.newID = newID }
}

func NewCheckout(history *History, opts ...CheckoutOption) *Checkout {
	co := &Checkout{
		history: history,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

func validateBuyer(b models.Buyer) error {
	if b.Name == "" || b.Address == "" || b.PaymentMethod == "" {
		return ErrMissingBuyerDetails
	}
	return nil
}

// Place records an order for product. The cart, when attached, only loses
// the product once the order is stored.
func (co *Checkout) Place(ctx context.Context, product models.Product, buyer models.Buyer) (models.Order, error) {
	if err := validateBuyer(buyer); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:      co.newID(),
		Product: product,
		Buyer:   buyer,
		Date:    co.now().UTC().Format(DateLayout),
	}

	if err := co.history.Append(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	if co.cart != nil {
		co.cart.Remove(product.ID)
	}

	co.logger.Info("Order placed", zap.String("order_id", order.ID), zap.Int("product_id", product.ID))
	return order, nil
}
