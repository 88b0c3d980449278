package view

import (
	"sync"
	"time"
)

const DefaultCarouselInterval = 5000 * time.Millisecond

// Scroll is emitted on every carousel tick.
type Scroll struct {
	Index  int     `json:"index"`
	Offset float64 `json:"offset"`
}

// ItemWidth is the width of one carousel card for a viewport width.
func ItemWidth(viewport float64) float64 {
	return viewport*0.8 + 20
}

// Carousel advances a featured index on a fixed interval. At most one ticker
// runs per carousel; Start and Stop both wait for the previous one to exit.
// onScroll runs on the ticker goroutine and must not call Start or Stop.
type Carousel struct {
	interval  time.Duration
	itemWidth float64
	onScroll  func(Scroll)

	runMu sync.Mutex
	stop  chan struct{}
	done  chan struct{}

	mu     sync.Mutex
	length int
	index  int
}

func NewCarousel(interval time.Duration, viewport float64, onScroll func(Scroll)) *Carousel {
	if interval <= 0 {
		interval = DefaultCarouselInterval
	}
	if onScroll == nil {
		onScroll = func(Scroll) {}
	}
	return &Carousel{
		interval:  interval,
		itemWidth: ItemWidth(viewport),
		onScroll:  onScroll,
	}
}

// Start tears down any running ticker, resets the index to 0 and starts a new
// ticker over length items. A zero length leaves the carousel stopped.
func (c *Carousel) Start(length int) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.stopLocked()

	c.mu.Lock()
	c.length = length
	c.index = 0
	c.mu.Unlock()

	if length <= 0 {
		return
	}

	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
}

// Stop halts the ticker and returns once its goroutine has exited.
func (c *Carousel) Stop() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stopLocked()
}

func (c *Carousel) stopLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.stop, c.done = nil, nil
}

func (c *Carousel) Running() bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.stop != nil
}

func (c *Carousel) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Advance()
		}
	}
}

// Advance performs one tick synchronously. It does nothing while the length
// is zero.
func (c *Carousel) Advance() {
	c.mu.Lock()
	if c.length <= 0 {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % c.length
	s := Scroll{Index: c.index, Offset: float64(c.index) * c.itemWidth}
	c.mu.Unlock()

	c.onScroll(s)
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) ItemWidth() float64 {
	return c.itemWidth
}
