package services

import (
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type AdminService interface {
	ListUsers(ctx context.Context, role models.Role) ([]*models.User, error)
	ListProviders(ctx context.Context, verified *bool, page, limit int) (*ProviderPage, error)
	VerifyProvider(ctx context.Context, id uint, verified bool) (*models.ProviderProfile, error)
	ListCredentials(ctx context.Context, status models.CredentialStatus) ([]*models.Credential, error)
	VerifyCredential(ctx context.Context, id uint, verified bool) (*models.Credential, error)
	ListBookings(ctx context.Context, status models.BookingStatus) ([]*storage.BookingDetails, error)
	Stats(ctx context.Context) (*storage.PlatformStats, error)
	RolePermissions() map[models.Role][]models.Permission
}

type adminService struct {
	stg    storage.IStorage
	log    logger.ILogger
	notify notifier
	now    func() time.Time
}

func NewAdminService(stg storage.IStorage, log logger.ILogger, n notifier) AdminService {
	return &adminService{
		stg:    stg,
		log:    log,
		notify: n,
		now:    time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return s.stg.User().List(ctx, role)
}

func (s *adminService) ListProviders(ctx context.Context, verified *bool, page, limit int) (*ProviderPage, error) {
	page, limit = storage.NormalizePage(page, limit)
	providers, total, err := s.stg.Provider().Search(ctx, storage.ProviderFilter{
		Verified: verified,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return &ProviderPage{
		Providers: providers,
		Total:     total,
		Page:      page,
		Limit:     limit,
		Pages:     pages(total, limit),
	}, nil
}

func (s *adminService) VerifyProvider(ctx context.Context, id uint, verified bool) (*models.ProviderProfile, error) {
	profile, err := s.stg.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.IsVerified == verified {
		return profile, nil
	}

	profile.IsVerified = verified
	updated, err := s.stg.Provider().Update(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.log.Info("provider verification changed", logger.Uint("provider_id", id), logger.Any("is_verified", verified))

	if user, err := s.stg.User().GetByID(ctx, updated.UserID); err == nil {
		s.notify.providerVerified(ctx, user, verified)
	}
	return updated, nil
}

// ListCredentials defaults to the pending review queue.
func (s *adminService) ListCredentials(ctx context.Context, status models.CredentialStatus) ([]*models.Credential, error) {
	switch status {
	case "":
		status = models.CredentialPending
	case models.CredentialPending, models.CredentialVerified:
	default:
		return nil, fmt.Errorf("%w: unknown credential status %q", ErrInvalidInput, status)
	}
	return s.stg.Credential().ListByStatus(ctx, status)
}

func (s *adminService) VerifyCredential(ctx context.Context, id uint, verified bool) (*models.Credential, error) {
	credential, err := s.stg.Credential().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if verified {
		now := s.now()
		credential.Status = models.CredentialVerified
		credential.VerifiedAt = &now
	} else {
		credential.Status = models.CredentialPending
		credential.VerifiedAt = nil
	}
	return s.stg.Credential().Update(ctx, credential)
}

func (s *adminService) ListBookings(ctx context.Context, status models.BookingStatus) ([]*storage.BookingDetails, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.stg.Booking().List(ctx, storage.BookingFilter{Status: status})
}

func (s *adminService) Stats(ctx context.Context) (*storage.PlatformStats, error) {
	return s.stg.Stats(ctx)
}

func (s *adminService) RolePermissions() map[models.Role][]models.Permission {
	return models.RolePermissions
}
