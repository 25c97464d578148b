package storage

import (
	"context"
	"sync"
	"time"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

// CachedCatalog держит снимок каталога не дольше ttl.
// При ttl <= 0 каждый вызов читает хранилище заново.
type CachedCatalog struct {
	next CatalogStorage
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	products  []models.Product
	fetchedAt time.Time
}

// NewCachedCatalog оборачивает источник каталога кэшем.
func NewCachedCatalog(next CatalogStorage, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, ttl: ttl, now: time.Now}
}

// ListProducts отдает копию снимка, обновляя его по истечении ttl.
// Ошибка чтения не кэшируется.
func (c *CachedCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	if c.ttl <= 0 {
		return c.next.ListProducts(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.products == nil || c.now().Sub(c.fetchedAt) >= c.ttl {
		products, err := c.next.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.products = products
		c.fetchedAt = c.now()
	}

	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out, nil
}

// Invalidate сбрасывает снимок, следующий вызов прочитает хранилище.
func (c *CachedCatalog) Invalidate() {
	c.mu.Lock()
	c.products = nil
	c.mu.Unlock()
}
