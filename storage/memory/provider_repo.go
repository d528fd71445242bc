package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type providerRepo struct {
	m *MemStorage
}

func (r providerRepo) Create(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[profile.UserID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, p := range r.m.providers {
		if p.UserID == profile.UserID {
			return nil, storage.ErrConflict
		}
	}

	r.m.providerSeq++
	created := *profile
	created.ID = r.m.providerSeq
	created.CreatedAt = r.m.now()
	created.UpdatedAt = created.CreatedAt
	r.m.providers[created.ID] = created
	return &created, nil
}

func (r providerRepo) GetByID(ctx context.Context, id uint) (*models.ProviderProfile, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	p, ok := r.m.providers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (r providerRepo) GetByUserID(ctx context.Context, userID uint) (*models.ProviderProfile, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, p := range r.m.providers {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r providerRepo) Update(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.providers[profile.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	// Same columns as the postgres store. Rating, review count and completed
	// jobs only change through SetRating and IncrementCompletedJobs.
	updated := existing
	updated.BusinessName = profile.BusinessName
	updated.Description = profile.Description
	updated.Category = profile.Category
	updated.HourlyRate = profile.HourlyRate
	updated.YearsOfExperience = profile.YearsOfExperience
	updated.ServiceArea = profile.ServiceArea
	updated.Availability = profile.Availability
	updated.IsVerified = profile.IsVerified
	updated.UpdatedAt = r.m.now()
	r.m.providers[updated.ID] = updated
	return &updated, nil
}

// Search joins provider profiles with their users, filters, sorts by rating
// and returns one page plus the total number of matches.
func (r providerRepo) Search(ctx context.Context, filter storage.ProviderFilter) ([]*storage.ProviderWithUser, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matches := make([]*storage.ProviderWithUser, 0)
	for _, p := range r.m.providers {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.VerifiedOnly && !p.IsVerified {
			continue
		}
		if filter.Verified != nil && p.IsVerified != *filter.Verified {
			continue
		}
		if filter.MinRating > 0 && p.Rating < filter.MinRating {
			continue
		}
		user := r.m.users[p.UserID]
		if query != "" &&
			!strings.Contains(strings.ToLower(p.BusinessName), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) &&
			!strings.Contains(strings.ToLower(user.FullName), query) {
			continue
		}
		matches = append(matches, &storage.ProviderWithUser{
			ProviderProfile: p,
			User:            user.Public(),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Rating != matches[j].Rating {
			return matches[i].Rating > matches[j].Rating
		}
		return matches[i].ID < matches[j].ID
	})

	page, limit := storage.NormalizePage(filter.Page, filter.Limit)
	start, end := paginate(len(matches), page, limit)
	return matches[start:end], len(matches), nil
}

func (r providerRepo) IncrementCompletedJobs(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.m.providers[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.CompletedJobs++
	p.UpdatedAt = r.m.now()
	r.m.providers[id] = p
	return nil
}

func (r providerRepo) SetRating(ctx context.Context, id uint, rating float64, count int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.m.providers[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Rating = rating
	p.ReviewCount = count
	p.UpdatedAt = r.m.now()
	r.m.providers[id] = p
	return nil
}
