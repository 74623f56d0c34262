// Package cache holds the in-memory product snapshot used to validate carts
// and adjust stock locally while the primary database is unreachable.
package cache

import (
	"sync"

	"github.com/google/uuid"

	"github.com/krishisethu/pos-api/internal/domain/entity"
)

// StockCache is an in-memory snapshot of product stock levels. It is
// refreshed from the database whenever products are read or written, and
// during an outage it is the source of truth for local stock adjustments.
type StockCache struct {
	products map[uuid.UUID]entity.Product
	mu       sync.RWMutex
}

// NewStockCache creates an empty stock cache.
func NewStockCache() *StockCache {
	return &StockCache{
		products: make(map[uuid.UUID]entity.Product),
	}
}

// Load replaces the snapshot with the given products.
func (c *StockCache) Load(products []entity.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		c.products[p.ID] = p
	}
}

// Put inserts or refreshes a single product.
func (c *StockCache) Put(product entity.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
}

// Get returns a snapshot copy of the product, if cached.
func (c *StockCache) Get(id uuid.UUID) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}

// Remove drops a product from the snapshot.
func (c *StockCache) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
}

// Adjust applies a stock delta to the cached product and returns the
// resulting quantity. Quantities floor at zero. Returns false if the
// product is not cached.
func (c *StockCache) Adjust(id uuid.UUID, delta int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[id]
	if !ok {
		return 0, false
	}

	p.Quantity += delta
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	c.products[id] = p
	return p.Quantity, true
}

// Len returns the number of cached products.
func (c *StockCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
