package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/repository"
)

const (
	catalogCacheKey = "catalog:materials:active"
	// Staleness ceiling. Invalidation happens at write time; the TTL only
	// bounds how long a missed invalidation can serve old prices.
	catalogCacheTTL = time.Hour
)

// CatalogService serves the active material catalog through a read-through
// redis cache invalidated on every catalog write. Without a redis client it
// degrades to direct reads.
type CatalogService struct {
	materials *repository.MaterialRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewCatalogService(materials *repository.MaterialRepository, rdb *redis.Client, logger *zap.Logger) *CatalogService {
	return &CatalogService{materials: materials, rdb: rdb, logger: logger}
}

// ActiveMaterials returns the active catalog, cached.
func (s *CatalogService) ActiveMaterials(ctx context.Context) ([]entity.Material, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var cached []entity.Material
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("corrupt catalog cache entry, refetching", zap.Error(err))
		} else if err != redis.Nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	materials, err := s.materials.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(materials); err == nil {
			if err := s.rdb.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return materials, nil
}

// Invalidate drops the cached catalog. Called on every catalog mutation so
// BOM calculations never price against a stale entry.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) Create(ctx context.Context, m *entity.Material) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := s.materials.Create(ctx, m); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, m *entity.Material) error {
	if err := s.materials.Update(ctx, m); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}
