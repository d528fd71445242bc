package memory

import (
	"context"
	"math"
	"sort"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type reviewRepo struct {
	m *MemStorage
}

func (r reviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.bookings[review.BookingID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, rv := range r.m.reviews {
		if rv.BookingID == review.BookingID {
			return nil, storage.ErrConflict
		}
	}

	r.m.reviewSeq++
	created := *review
	created.ID = r.m.reviewSeq
	created.CreatedAt = r.m.now()
	r.m.reviews[created.ID] = created
	return &created, nil
}

func (r reviewRepo) GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, rv := range r.m.reviews {
		if rv.BookingID == bookingID {
			return &rv, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListByProvider returns the newest reviews first.
func (r reviewRepo) ListByProvider(ctx context.Context, providerID uint, page, limit int) ([]*models.ReviewWithAuthor, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	all := make([]*models.ReviewWithAuthor, 0)
	for _, rv := range r.m.reviews {
		if rv.ProviderID != providerID {
			continue
		}
		all = append(all, &models.ReviewWithAuthor{
			Review:   rv,
			Customer: r.m.users[rv.CustomerID].Public(),
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	page, limit = storage.NormalizePage(page, limit)
	start, end := paginate(len(all), page, limit)
	return all[start:end], len(all), nil
}

func (r reviewRepo) Stats(ctx context.Context, providerID uint) (*storage.ReviewStats, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	stats := &storage.ReviewStats{
		ProviderID:   providerID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	for _, rv := range r.m.reviews {
		if rv.ProviderID != providerID {
			continue
		}
		stats.TotalReviews++
		stats.RatingSum += rv.Rating
		stats.Distribution[rv.Rating]++
	}
	if stats.TotalReviews > 0 {
		avg := float64(stats.RatingSum) / float64(stats.TotalReviews)
		stats.AvgRating = math.Round(avg*100) / 100
	}
	return stats, nil
}
