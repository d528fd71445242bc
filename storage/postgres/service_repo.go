package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type serviceRepo struct {
	db *gorm.DB
}

func (r serviceRepo) Create(ctx context.Context, service *models.Service) (*models.Service, error) {
	created := *service
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r serviceRepo) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &service, nil
}

func (r serviceRepo) List(ctx context.Context, category string) ([]*models.Service, error) {
	services := make([]*models.Service, 0)
	q := r.db.WithContext(ctx).Order("id")
	if category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	if err := q.Find(&services).Error; err != nil {
		return nil, mapErr(err)
	}
	return services, nil
}

func (r serviceRepo) Update(ctx context.Context, service *models.Service) (*models.Service, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Service{}, service.ID).Error; err != nil {
		return nil, mapErr(err)
	}
	updated := *service
	if err := db.Model(&updated).Select("name", "description", "category", "icon", "base_price").Updates(&updated).Error; err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, service.ID)
}

func (r serviceRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Booking{}).Where("service_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return storage.ErrConflict
		}
		res := tx.Delete(&models.Service{}, id)
		if res.Error != nil {
			return mapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}
