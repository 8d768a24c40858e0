package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/repository"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

const (
	buildingCacheKey = "directory:buildings"
	buildingCacheTTL = 10 * time.Minute
)

// DirectoryService serves the campus building directory and repair
// categories. The building list backs every location decode, so it is cached
// in redis; a cache miss or redis outage falls back to postgres.
type DirectoryService struct {
	buildings  repository.BuildingRepository
	categories repository.CategoryRepository
	cache      *redis.Client
	logger     *zap.Logger
}

// NewDirectoryService constructs the service. cache may be nil.
func NewDirectoryService(buildings repository.BuildingRepository, categories repository.CategoryRepository, cache *redis.Client, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		buildings:  buildings,
		categories: categories,
		cache:      cache,
		logger:     logger,
	}
}

// BuildingNames returns directory names in listing order.
func (s *DirectoryService) BuildingNames(ctx context.Context) ([]string, error) {
	if names, ok := s.cachedNames(ctx); ok {
		return names, nil
	}

	buildings, err := s.buildings.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make([]string, 0, len(buildings))
	for _, b := range buildings {
		names = append(names, b.Name)
	}

	s.storeNames(ctx, names)
	return names, nil
}

// Categories lists active repair categories.
func (s *DirectoryService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *DirectoryService) cachedNames(ctx context.Context) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, buildingCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("building cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false
	}
	return names, true
}

func (s *DirectoryService) storeNames(ctx context.Context, names []string) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, buildingCacheKey, raw, buildingCacheTTL).Err(); err != nil {
		s.logger.Debug("building cache write failed", zap.Error(err))
	}
}
