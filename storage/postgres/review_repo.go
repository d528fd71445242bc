package postgres

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r reviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	created := *review
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r reviewRepo) GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, mapErr(err)
	}
	return &review, nil
}

func (r reviewRepo) ListByProvider(ctx context.Context, providerID uint, page, limit int) ([]*models.ReviewWithAuthor, int, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Review{}).Where("provider_id = ?", providerID).Count(&total).Error; err != nil {
		return nil, 0, mapErr(err)
	}

	page, limit = storage.NormalizePage(page, limit)
	var reviews []models.Review
	if err := db.Where("provider_id = ?", providerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, mapErr(err)
	}

	ids := make([]uint, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.CustomerID)
	}
	authors, err := publicUsers(db, ids)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	out := make([]*models.ReviewWithAuthor, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, &models.ReviewWithAuthor{Review: rv, Customer: authors[rv.CustomerID]})
	}
	return out, int(total), nil
}

func (r reviewRepo) Stats(ctx context.Context, providerID uint) (*storage.ReviewStats, error) {
	var rows []struct {
		Rating int
		N      int
	}
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, count(*) as n").
		Where("provider_id = ?", providerID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, mapErr(err)
	}

	stats := &storage.ReviewStats{
		ProviderID:   providerID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.N
		stats.TotalReviews += row.N
		stats.RatingSum += row.Rating * row.N
	}
	if stats.TotalReviews > 0 {
		avg := float64(stats.RatingSum) / float64(stats.TotalReviews)
		stats.AvgRating = math.Round(avg*100) / 100
	}
	return stats, nil
}
