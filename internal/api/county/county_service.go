package county

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ CountyService = (*CountyServiceImpl)(nil)

type CountyService interface {
	List(ctx context.Context) ([]types.County, error)
	GetByID(ctx context.Context, id int64) (*types.County, error)
	GetByName(ctx context.Context, name string) (*types.County, error)
	GetByCode(ctx context.Context, code int) (*types.County, error)
	Create(ctx context.Context, req types.CountyRequest) (*types.County, error)
	Update(ctx context.Context, id int64, req types.CountyRequest) (*types.County, error)
	Delete(ctx context.Context, id int64) error
}

const listCacheKey = "counties:all"

// CountyServiceImpl caches the full listing, which is public and rarely
// changes. Every write drops the cached copy.
type CountyServiceImpl struct {
	logger *slog.Logger
	repo   CountyRepo
	cache  *cache.Cache
}

func NewCountyService(repo CountyRepo, ttl time.Duration, logger *slog.Logger) *CountyServiceImpl {
	return &CountyServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (s *CountyServiceImpl) List(ctx context.Context) ([]types.County, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return slices.Clone(cached.([]types.County)), nil
	}
	counties, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(listCacheKey, slices.Clone(counties))
	s.logger.DebugContext(ctx, "County list cached", slog.Int("count", len(counties)))
	return counties, nil
}

func (s *CountyServiceImpl) GetByID(ctx context.Context, id int64) (*types.County, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CountyServiceImpl) GetByName(ctx context.Context, name string) (*types.County, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *CountyServiceImpl) GetByCode(ctx context.Context, code int) (*types.County, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *CountyServiceImpl) Create(ctx context.Context, req types.CountyRequest) (*types.County, error) {
	c, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	s.logger.InfoContext(ctx, "County created", slog.Int64("id", c.ID), slog.String("name", c.Name))
	return c, nil
}

func (s *CountyServiceImpl) Update(ctx context.Context, id int64, req types.CountyRequest) (*types.County, error) {
	c, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	return c, nil
}

func (s *CountyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(listCacheKey)
	s.logger.InfoContext(ctx, "County deleted", slog.Int64("id", id))
	return nil
}
