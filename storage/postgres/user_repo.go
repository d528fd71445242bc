package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	created := *user
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r userRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&models.User{}, user.ID).Error; err != nil {
		return nil, mapErr(err)
	}
	updated := *user
	if err := db.Model(&updated).Select("email", "full_name", "phone", "address", "role", "profile_picture", "password").Updates(&updated).Error; err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, user.ID)
}

func (r userRepo) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	var users []*models.User
	q := r.db.WithContext(ctx).Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}
