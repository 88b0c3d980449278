// Package cart is the in-memory shopping cart. It is not persisted.
package cart

import (
	"sync"

	"storefront/internal/broadcast"
	"storefront/internal/models"
)

type Cart struct {
	pubMu sync.Mutex
	mu    sync.Mutex
	items []models.Product

	changes broadcast.Topic[[]models.Product]
}

func New() *Cart {
	return &Cart{}
}

// Add appends product unless an item with the same ID is already in the
// cart. It reports whether the cart changed.
func (c *Cart) Add(product models.Product) bool {
	added := false
	c.commit(func() {
		for _, it := range c.items {
			if it.ID == product.ID {
				return
			}
		}
		c.items = append(c.items, product)
		added = true
	})
	return added
}

// Remove drops the item with id and reports whether one was present.
func (c *Cart) Remove(id int) bool {
	removed := false
	c.commit(func() {
		for i, it := range c.items {
			if it.ID == id {
				c.items = append(c.items[:i:i], c.items[i+1:]...)
				removed = true
				return
			}
		}
	})
	return removed
}

func (c *Cart) Items() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

func (c *Cart) Contains(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

func (c *Cart) Subscribe(fn func([]models.Product)) (cancel func()) {
	return c.changes.Subscribe(fn)
}

func (c *Cart) itemsLocked() []models.Product {
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) commit(mutate func()) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	mutate()
	items := c.itemsLocked()
	c.mu.Unlock()

	c.changes.Publish(items)
}
