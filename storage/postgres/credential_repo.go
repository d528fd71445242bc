package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type credentialRepo struct {
	db *gorm.DB
}

func (r credentialRepo) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	created := *credential
	if created.Status == "" {
		created.Status = models.CredentialPending
	}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r credentialRepo) GetByID(ctx context.Context, id uint) (*models.Credential, error) {
	var credential models.Credential
	if err := r.db.WithContext(ctx).First(&credential, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &credential, nil
}

func (r credentialRepo) ListByProvider(ctx context.Context, providerID uint) ([]*models.Credential, error) {
	credentials := make([]*models.Credential, 0)
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("id").Find(&credentials).Error; err != nil {
		return nil, mapErr(err)
	}
	return credentials, nil
}

func (r credentialRepo) ListByStatus(ctx context.Context, status models.CredentialStatus) ([]*models.Credential, error) {
	credentials := make([]*models.Credential, 0)
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&credentials).Error; err != nil {
		return nil, mapErr(err)
	}
	return credentials, nil
}

func (r credentialRepo) Update(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Credential{}, credential.ID).Error; err != nil {
		return nil, mapErr(err)
	}
	updated := *credential
	if err := db.Model(&updated).Select(
		"type", "name", "issuer", "license_number", "document_url",
		"issue_date", "expiry_date", "status", "verified_at",
	).Updates(&updated).Error; err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, credential.ID)
}

func (r credentialRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Credential{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
