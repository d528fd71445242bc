package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type providerRepo struct {
	db *gorm.DB
}

func (r providerRepo) Create(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error) {
	created := *profile
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r providerRepo) GetByID(ctx context.Context, id uint) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &profile, nil
}

func (r providerRepo) GetByUserID(ctx context.Context, userID uint) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, mapErr(err)
	}
	return &profile, nil
}

func (r providerRepo) Update(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&models.ProviderProfile{}, profile.ID).Error; err != nil {
		return nil, mapErr(err)
	}
	updated := *profile
	if err := db.Model(&updated).Select(
		"business_name", "description", "category", "hourly_rate", "years_of_experience",
		"service_area", "availability", "is_verified",
	).Updates(&updated).Error; err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, profile.ID)
}

func (r providerRepo) Search(ctx context.Context, filter storage.ProviderFilter) ([]*storage.ProviderWithUser, int, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.ProviderProfile{}).
		Joins("JOIN users ON users.id = provider_profiles.user_id")

	if filter.Category != "" {
		q = q.Where("LOWER(provider_profiles.category) = LOWER(?)", filter.Category)
	}
	if filter.VerifiedOnly {
		q = q.Where("provider_profiles.is_verified = ?", true)
	}
	if filter.Verified != nil {
		q = q.Where("provider_profiles.is_verified = ?", *filter.Verified)
	}
	if filter.MinRating > 0 {
		q = q.Where("provider_profiles.rating >= ?", filter.MinRating)
	}
	if filter.Query != "" {
		like := containsPattern(filter.Query)
		q = q.Where(
			"provider_profiles.business_name ILIKE ? OR provider_profiles.description ILIKE ? OR provider_profiles.category ILIKE ? OR users.full_name ILIKE ?",
			like, like, like, like,
		)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapErr(err)
	}

	page, limit := storage.NormalizePage(filter.Page, filter.Limit)
	var profiles []models.ProviderProfile
	if err := q.Select("provider_profiles.*").
		Order("provider_profiles.rating DESC, provider_profiles.id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&profiles).Error; err != nil {
		return nil, 0, mapErr(err)
	}

	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := publicUsers(db, ids)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	out := make([]*storage.ProviderWithUser, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, &storage.ProviderWithUser{ProviderProfile: p, User: users[p.UserID]})
	}
	return out, int(total), nil
}

func (r providerRepo) IncrementCompletedJobs(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", id).
		Update("completed_jobs", gorm.Expr("completed_jobs + 1"))
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r providerRepo) SetRating(ctx context.Context, id uint, rating float64, count int) error {
	res := r.db.WithContext(ctx).Model(&models.ProviderProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review_count": count})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
