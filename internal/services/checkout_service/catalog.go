package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/repository"
	"lightbox/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Catalog отдает авторитетные цены вариантов
type Catalog interface {
	Variant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error)
}

// CachedCatalog кэширует варианты из product_variants на ttl
type CachedCatalog struct {
	repo  repository.ProductRepository
	cache *cache.Cache
}

func NewCachedCatalog(repo repository.ProductRepository, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedCatalog) Variant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error) {
	const op = "services.CachedCatalog.Variant"

	if v, ok := c.cache.Get(id.String()); ok {
		return v.(models.ProductVariant), nil
	}

	v, err := c.repo.GetVariant(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrVariantNotFound) {
			return models.ProductVariant{}, fmt.Errorf("%s: %w", op, ErrUnknownVariant)
		}
		return models.ProductVariant{}, fmt.Errorf("%s: %w", op, err)
	}

	c.cache.SetDefault(id.String(), v)

	return v, nil
}
