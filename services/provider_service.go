package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type ProviderService interface {
	CreateProfile(ctx context.Context, actor Actor, req models.ProviderProfileRequest) (*models.ProviderProfile, error)
	GetOwnProfile(ctx context.Context, userID uint) (*models.ProviderProfile, error)
	UpdateProfile(ctx context.Context, userID uint, req models.UpdateProviderProfileRequest) (*models.ProviderProfile, error)
	GetPublicProfile(ctx context.Context, id uint) (*PublicProfile, error)
	Search(ctx context.Context, filter storage.ProviderFilter) (*ProviderPage, error)
	AddCredential(ctx context.Context, userID uint, req models.CredentialRequest, file io.Reader, filename string) (*models.Credential, error)
	ListCredentials(ctx context.Context, userID uint) ([]*models.Credential, error)
	DeleteCredential(ctx context.Context, userID, credentialID uint) error
	ListReviews(ctx context.Context, providerID uint, page, limit int) (*ReviewPage, error)
	Dashboard(ctx context.Context, userID uint) (*Dashboard, error)
}

// PublicProfile is what customers see on a provider page.
type PublicProfile struct {
	storage.ProviderWithUser
	Credentials []*models.Credential `json:"credentials"`
	Reviews     *storage.ReviewStats `json:"review_stats"`
}

type ProviderPage struct {
	Providers []*storage.ProviderWithUser `json:"providers"`
	Total     int                         `json:"total"`
	Page      int                         `json:"page"`
	Limit     int                         `json:"limit"`
	Pages     int                         `json:"pages"`
}

type ReviewPage struct {
	Reviews []*models.ReviewWithAuthor `json:"reviews"`
	Stats   *storage.ReviewStats       `json:"stats"`
	Total   int                        `json:"total"`
	Page    int                        `json:"page"`
	Limit   int                        `json:"limit"`
	Pages   int                        `json:"pages"`
}

type Dashboard struct {
	Profile          *models.ProviderProfile      `json:"profile"`
	BookingsByStatus map[models.BookingStatus]int `json:"bookings_by_status"`
	PendingRequests  int                          `json:"pending_requests"`
	Upcoming         []*storage.BookingDetails    `json:"upcoming"`
	TotalEarnings    float64                      `json:"total_earnings"`
	ReviewStats      *storage.ReviewStats         `json:"review_stats"`
}

type providerService struct {
	stg      storage.IStorage
	log      logger.ILogger
	uploader Uploader
	now      func() time.Time
}

func NewProviderService(stg storage.IStorage, log logger.ILogger, uploader Uploader) ProviderService {
	return &providerService{
		stg:      stg,
		log:      log,
		uploader: uploader,
		now:      time.Now,
	}
}

func (s *providerService) CreateProfile(ctx context.Context, actor Actor, req models.ProviderProfileRequest) (*models.ProviderProfile, error) {
	if actor.Role != models.RoleProvider {
		return nil, fmt.Errorf("%w: only providers have a provider profile", ErrForbidden)
	}
	if _, err := s.stg.Provider().GetByUserID(ctx, actor.UserID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	profile, err := s.stg.Provider().Create(ctx, &models.ProviderProfile{
		UserID:            actor.UserID,
		BusinessName:      req.BusinessName,
		Description:       req.Description,
		Category:          req.Category,
		HourlyRate:        req.HourlyRate,
		YearsOfExperience: req.YearsOfExperience,
		ServiceArea:       req.ServiceArea,
		Availability:      req.Availability,
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrProfileExists
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("provider profile created", logger.Uint("provider_id", profile.ID), logger.Uint("user_id", actor.UserID))
	return profile, nil
}

func (s *providerService) GetOwnProfile(ctx context.Context, userID uint) (*models.ProviderProfile, error) {
	profile, err := s.stg.Provider().GetByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrProfileRequired
	}
	return profile, err
}

func (s *providerService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProviderProfileRequest) (*models.ProviderProfile, error) {
	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		profile.BusinessName = *req.BusinessName
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.Category != nil {
		profile.Category = *req.Category
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = *req.HourlyRate
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.ServiceArea != nil {
		profile.ServiceArea = *req.ServiceArea
	}
	if req.Availability != nil {
		profile.Availability = *req.Availability
	}
	return s.stg.Provider().Update(ctx, profile)
}

func (s *providerService) GetPublicProfile(ctx context.Context, id uint) (*PublicProfile, error) {
	profile, err := s.stg.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.stg.User().GetByID(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	credentials, err := s.stg.Credential().ListByProvider(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stg.Review().Stats(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	visible := make([]*models.Credential, 0, len(credentials))
	for _, c := range credentials {
		if c.Status == models.CredentialVerified && !c.Expired(now) {
			visible = append(visible, c)
		}
	}

	return &PublicProfile{
		ProviderWithUser: storage.ProviderWithUser{ProviderProfile: *profile, User: user.Public()},
		Credentials:      visible,
		Reviews:          stats,
	}, nil
}

func (s *providerService) Search(ctx context.Context, filter storage.ProviderFilter) (*ProviderPage, error) {
	filter.Page, filter.Limit = storage.NormalizePage(filter.Page, filter.Limit)
	providers, total, err := s.stg.Provider().Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProviderPage{
		Providers: providers,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
		Pages:     pages(total, filter.Limit),
	}, nil
}

// AddCredential stores a new pending credential. When file is not nil it is
// uploaded and its URL replaces req.DocumentURL.
func (s *providerService) AddCredential(ctx context.Context, userID uint, req models.CredentialRequest, file io.Reader, filename string) (*models.Credential, error) {
	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	documentURL := req.DocumentURL
	if file != nil {
		documentURL, err = s.uploader.Upload(ctx, file, "credentials", filename)
		if err != nil {
			return nil, fmt.Errorf("upload credential document: %w", err)
		}
	}
	if req.IssueDate != nil && req.ExpiryDate != nil && req.ExpiryDate.Before(*req.IssueDate) {
		return nil, fmt.Errorf("%w: expiry_date is before issue_date", ErrInvalidInput)
	}

	return s.stg.Credential().Create(ctx, &models.Credential{
		ProviderID:    profile.ID,
		Type:          req.Type,
		Name:          req.Name,
		Issuer:        req.Issuer,
		LicenseNumber: req.LicenseNumber,
		DocumentURL:   documentURL,
		IssueDate:     req.IssueDate,
		ExpiryDate:    req.ExpiryDate,
		Status:        models.CredentialPending,
	})
}

func (s *providerService) ListCredentials(ctx context.Context, userID uint) ([]*models.Credential, error) {
	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.stg.Credential().ListByProvider(ctx, profile.ID)
}

func (s *providerService) DeleteCredential(ctx context.Context, userID, credentialID uint) error {
	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return err
	}
	credential, err := s.stg.Credential().GetByID(ctx, credentialID)
	if err != nil {
		return err
	}
	if credential.ProviderID != profile.ID {
		return ErrForbidden
	}
	if credential.Status == models.CredentialVerified {
		return ErrCredentialLocked
	}
	return s.stg.Credential().Delete(ctx, credentialID)
}

func (s *providerService) ListReviews(ctx context.Context, providerID uint, page, limit int) (*ReviewPage, error) {
	if _, err := s.stg.Provider().GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	page, limit = storage.NormalizePage(page, limit)
	reviews, total, err := s.stg.Review().ListByProvider(ctx, providerID, page, limit)
	if err != nil {
		return nil, err
	}
	stats, err := s.stg.Review().Stats(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{
		Reviews: reviews,
		Stats:   stats,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages(total, limit),
	}, nil
}

func (s *providerService) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.stg.Booking().CountByStatus(ctx, storage.BookingFilter{ProviderID: profile.ID})
	if err != nil {
		return nil, err
	}
	upcoming, err := s.stg.Booking().List(ctx, storage.BookingFilter{
		ProviderID:    profile.ID,
		Status:        models.StatusAccepted,
		ScheduledFrom: s.now(),
	})
	if err != nil {
		return nil, err
	}
	payments, err := s.stg.Payment().ListByProvider(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stg.Review().Stats(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	var earnings float64
	for _, p := range payments {
		if p.Status == models.PaymentCompleted {
			earnings += p.Amount
		}
	}

	return &Dashboard{
		Profile:          profile,
		BookingsByStatus: counts,
		PendingRequests:  counts[models.StatusRequested],
		Upcoming:         upcoming,
		TotalEarnings:    earnings,
		ReviewStats:      stats,
	}, nil
}
