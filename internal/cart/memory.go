package cart

import (
	"context"
	"time"

	"lightbox/internal/domain/models"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage держит корзины в памяти процесса; подходит для одного инстанса и тестов
type MemoryStorage struct {
	c   *cache.Cache
	ttl time.Duration
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		c:   cache.New(ttl, ttl*2),
		ttl: ttl,
	}
}

func (m *MemoryStorage) Load(_ context.Context, id string) (models.Cart, error) {
	v, ok := m.c.Get(id)
	if !ok {
		return models.Cart{}, ErrCartNotFound
	}

	return clone(v.(models.Cart)), nil
}

func (m *MemoryStorage) Save(_ context.Context, cart models.Cart) error {
	m.c.Set(cart.ID, clone(cart), m.ttl)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.c.Delete(id)
	return nil
}

// clone копирует слайс строк, чтобы вызывающий не менял сохраненное значение
func clone(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
