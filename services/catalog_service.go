package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

const (
	catalogCacheKey = "services:all"
	catalogCacheTTL = 10 * time.Minute
)

type CatalogService interface {
	List(ctx context.Context, category string) ([]*models.Service, error)
	Get(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, req models.ServiceRequest) (*models.Service, error)
	Update(ctx context.Context, id uint, req models.UpdateServiceRequest) (*models.Service, error)
	Delete(ctx context.Context, id uint) error
}

type catalogService struct {
	stg   storage.IServiceStorage
	log   logger.ILogger
	cache Cache
}

func NewCatalogService(stg storage.IStorage, log logger.ILogger, cache Cache) CatalogService {
	return &catalogService{
		stg:   stg.Service(),
		log:   log,
		cache: cache,
	}
}

// List serves the whole catalog from cache and filters it by category.
func (s *catalogService) List(ctx context.Context, category string) ([]*models.Service, error) {
	var all []*models.Service
	hit, err := s.cache.Get(ctx, catalogCacheKey, &all)
	if err != nil {
		s.log.Warning("catalog cache read failed", logger.Error(err))
	}
	if !hit {
		all, err = s.stg.List(ctx, "")
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, catalogCacheKey, all, catalogCacheTTL); err != nil {
			s.log.Warning("catalog cache write failed", logger.Error(err))
		}
	}

	if category == "" {
		return all, nil
	}
	filtered := make([]*models.Service, 0, len(all))
	for _, svc := range all {
		if strings.EqualFold(svc.Category, category) {
			filtered = append(filtered, svc)
		}
	}
	return filtered, nil
}

func (s *catalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *catalogService) Create(ctx context.Context, req models.ServiceRequest) (*models.Service, error) {
	created, err := s.stg.Create(ctx, &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Icon:        req.Icon,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *catalogService) Update(ctx context.Context, id uint, req models.UpdateServiceRequest) (*models.Service, error) {
	svc, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Icon != nil {
		svc.Icon = *req.Icon
	}
	if req.BasePrice != nil {
		svc.BasePrice = *req.BasePrice
	}

	updated, err := s.stg.Update(ctx, svc)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *catalogService) Delete(ctx context.Context, id uint) error {
	if err := s.stg.Delete(ctx, id); errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("service is referenced by bookings: %w", err)
	} else if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, catalogCacheKey); err != nil {
		s.log.Warning("catalog cache invalidation failed", logger.Error(err))
	}
}
