package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type serviceRepo struct {
	m *MemStorage
}

func (r serviceRepo) Create(ctx context.Context, service *models.Service) (*models.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.serviceSeq++
	created := *service
	created.ID = r.m.serviceSeq
	created.CreatedAt = r.m.now()
	created.UpdatedAt = created.CreatedAt
	r.m.services[created.ID] = created
	return &created, nil
}

func (r serviceRepo) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	s, ok := r.m.services[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &s, nil
}

func (r serviceRepo) List(ctx context.Context, category string) ([]*models.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	services := make([]*models.Service, 0, len(r.m.services))
	for _, s := range r.m.services {
		if category != "" && !strings.EqualFold(s.Category, category) {
			continue
		}
		s := s
		services = append(services, &s)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (r serviceRepo) Update(ctx context.Context, service *models.Service) (*models.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.services[service.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	updated := *service
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.m.now()
	r.m.services[updated.ID] = updated
	return &updated, nil
}

func (r serviceRepo) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.services[id]; !ok {
		return storage.ErrNotFound
	}
	for _, b := range r.m.bookings {
		if b.ServiceID == id {
			return storage.ErrConflict
		}
	}
	delete(r.m.services, id)
	return nil
}
