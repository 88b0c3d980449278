package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/broadcast"
	"storefront/internal/models"

	"go.uber.org/zap"
)

var ErrEmptyFeedback = errors.New("please write something before submitting")

type HomeSnapshot struct {
	Featured []models.Product `json:"featured"`
	Loading  bool             `json:"loading"`
	Feedback string           `json:"feedback"`
	Scroll   Scroll           `json:"scroll"`
}

// Home is the landing screen: a featured-products carousel and a feedback
// box. Subscribers run on the carousel goroutine for scroll updates and must
// not call Close from their callback.
type Home struct {
	source   ProductSource
	logger   *zap.Logger
	carousel *Carousel

	refreshMu sync.Mutex
	pubMu     sync.Mutex
	mu        sync.Mutex
	featured  []models.Product
	loading   bool
	feedback  string
	scroll    Scroll

	changes broadcast.Topic[HomeSnapshot]
}

func NewHome(source ProductSource, opts ...Option) *Home {
	o := buildOptions(opts)
	h := &Home{
		source:  source,
		logger:  o.logger,
		loading: true,
	}
	h.carousel = NewCarousel(o.interval, o.viewport, func(s Scroll) {
		h.commit(func() { h.scroll = s })
	})
	return h
}

// Refresh fetches the featured products and restarts the carousel over them.
// The old ticker is stopped before the list is swapped, so no scroll for the
// previous list lands after it. On failure the previous products stay and the
// error is returned.
func (h *Home) Refresh(ctx context.Context) error {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	products, err := h.source.GetProducts(ctx)
	if err != nil {
		h.logger.Warn("Failed to fetch featured products", zap.Error(err))
		h.commit(func() { h.loading = false })
		return fmt.Errorf("fetch featured products: %w", err)
	}

	h.carousel.Stop()
	h.commit(func() {
		h.featured = products
		h.loading = false
		h.scroll = Scroll{}
	})
	h.carousel.Start(len(products))
	return nil
}

func (h *Home) SetFeedback(text string) {
	h.commit(func() { h.feedback = text })
}

// SubmitFeedback accepts the current feedback text and clears it. Blank text
// is rejected with ErrEmptyFeedback and left in place.
func (h *Home) SubmitFeedback() (string, error) {
	h.mu.Lock()
	text := h.feedback
	h.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyFeedback
	}

	h.commit(func() { h.feedback = "" })
	h.logger.Info("Feedback submitted", zap.Int("length", len(text)))
	return text, nil
}

// Carousel exposes the featured carousel for front-ends that drive ticks
// themselves.
func (h *Home) Carousel() *Carousel {
	return h.carousel
}

// Close stops the carousel ticker.
func (h *Home) Close() {
	h.carousel.Stop()
}

func (h *Home) Snapshot() HomeSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Home) Subscribe(fn func(HomeSnapshot)) (cancel func()) {
	return h.changes.Subscribe(fn)
}

func (h *Home) snapshotLocked() HomeSnapshot {
	featured := make([]models.Product, len(h.featured))
	copy(featured, h.featured)
	return HomeSnapshot{
		Featured: featured,
		Loading:  h.loading,
		Feedback: h.feedback,
		Scroll:   h.scroll,
	}
}

func (h *Home) commit(mutate func()) {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()

	h.mu.Lock()
	mutate()
	snap := h.snapshotLocked()
	h.mu.Unlock()

	h.changes.Publish(snap)
}
