package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

// Reminders go out for accepted bookings starting 55 to 65 minutes from now.
// A sent reminder is remembered for longer than the window.
const (
	reminderLead    = 55 * time.Minute
	reminderWindow  = 10 * time.Minute
	reminderSentTTL = 2 * time.Hour
)

type BookingService interface {
	Create(ctx context.Context, actor Actor, req models.CreateBookingRequest) (*storage.BookingDetails, error)
	Get(ctx context.Context, actor Actor, id uint) (*storage.BookingDetails, error)
	List(ctx context.Context, actor Actor, status models.BookingStatus) ([]*storage.BookingDetails, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, to models.BookingStatus, note string) (*storage.BookingDetails, error)
	SendReminders(ctx context.Context, now time.Time) (int, error)
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	stg    storage.IStorage
	log    logger.ILogger
	notify notifier
	cache  Cache
	now    func() time.Time
}

func NewBookingService(stg storage.IStorage, log logger.ILogger, n notifier, cache Cache) BookingService {
	return &bookingService{
		stg:    stg,
		log:    log,
		notify: n,
		cache:  cache,
		now:    time.Now,
	}
}

// Price is the provider's hourly rate times the estimated hours. Providers
// without an hourly rate charge the service's base price.
func Price(provider *models.ProviderProfile, service *models.Service, hours float64) float64 {
	if hours <= 0 {
		hours = 1
	}
	if provider.HourlyRate > 0 {
		return provider.HourlyRate * hours
	}
	return service.BasePrice
}

func (s *bookingService) Create(ctx context.Context, actor Actor, req models.CreateBookingRequest) (*storage.BookingDetails, error) {
	if actor.Role != models.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can book services", ErrForbidden)
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, fmt.Errorf("%w: scheduled_at must be in the future", ErrInvalidInput)
	}

	provider, err := s.stg.Provider().GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	service, err := s.stg.Service().GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	hours := req.EstimatedHours
	if hours <= 0 {
		hours = 1
	}
	booking, err := s.stg.Booking().Create(ctx, &models.Booking{
		CustomerID:     actor.UserID,
		ProviderID:     provider.ID,
		ServiceID:      service.ID,
		ScheduledAt:    req.ScheduledAt,
		Address:        req.Address,
		Notes:          req.Notes,
		EstimatedHours: hours,
		TotalPrice:     Price(provider, service, hours),
		Status:         models.StatusRequested,
	})
	if err != nil {
		return nil, err
	}

	details, err := s.stg.Booking().GetWithDetails(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking requested",
		logger.Uint("booking_id", booking.ID),
		logger.Uint("customer_id", actor.UserID),
		logger.Uint("provider_id", provider.ID),
	)
	s.notify.bookingRequested(ctx, details)
	return details, nil
}

func (s *bookingService) Get(ctx context.Context, actor Actor, id uint) (*storage.BookingDetails, error) {
	details, err := s.stg.Booking().GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actor, &details.Booking); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *bookingService) List(ctx context.Context, actor Actor, status models.BookingStatus) ([]*storage.BookingDetails, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	filter := storage.BookingFilter{Status: status}

	switch actor.Role {
	case models.RoleCustomer:
		filter.CustomerID = actor.UserID
	case models.RoleProvider:
		profile, err := s.stg.Provider().GetByUserID(ctx, actor.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			return []*storage.BookingDetails{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.ProviderID = profile.ID
	case models.RoleAdmin:
	default:
		return nil, ErrForbidden
	}
	return s.stg.Booking().List(ctx, filter)
}

// UpdateStatus moves a booking through the state machine on behalf of actor.
func (s *bookingService) UpdateStatus(ctx context.Context, actor Actor, id uint, to models.BookingStatus, note string) (*storage.BookingDetails, error) {
	booking, err := s.stg.Booking().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actor, booking); err != nil {
		return nil, err
	}

	from := booking.Status
	if err := models.CheckTransition(from, to, actor.Role); err != nil {
		if models.HasTransition(from, to) {
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if _, err := s.stg.Booking().UpdateStatus(ctx, id, from, to, note); err != nil {
		return nil, err
	}
	if to == models.StatusCompleted {
		if err := s.stg.Provider().IncrementCompletedJobs(ctx, booking.ProviderID); err != nil {
			s.log.Error("failed to increment completed jobs", logger.Uint("provider_id", booking.ProviderID), logger.Error(err))
		}
	}

	details, err := s.stg.Booking().GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		logger.Uint("booking_id", id),
		logger.String("from", string(from)),
		logger.String("to", string(to)),
		logger.String("actor_role", string(actor.Role)),
	)
	s.notify.bookingStatusChanged(ctx, details, actor)
	return details, nil
}

func (s *bookingService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	bookings, err := s.stg.Booking().List(ctx, storage.BookingFilter{
		Status:        models.StatusAccepted,
		ScheduledFrom: now.Add(reminderLead),
		ScheduledTo:   now.Add(reminderLead + reminderWindow),
	})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range bookings {
		key := fmt.Sprintf("reminded:%d", b.ID)
		if s.alreadyReminded(ctx, key) {
			continue
		}
		s.notify.bookingReminder(ctx, b)
		sent++
		if s.cache == nil {
			continue
		}
		if err := s.cache.Set(ctx, key, true, reminderSentTTL); err != nil {
			s.log.Warning("failed to mark reminder as sent", logger.Uint("booking_id", b.ID), logger.Error(err))
		}
	}
	return sent, nil
}

// alreadyReminded reports whether an earlier run already mailed key.
func (s *bookingService) alreadyReminded(ctx context.Context, key string) bool {
	if s.cache == nil {
		return false
	}
	var sent bool
	found, err := s.cache.Get(ctx, key, &sent)
	return err == nil && found && sent
}

// ExpireStale cancels requested bookings whose scheduled time has passed.
func (s *bookingService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	bookings, err := s.stg.Booking().List(ctx, storage.BookingFilter{
		Status:      models.StatusRequested,
		ScheduledTo: now,
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range bookings {
		_, err := s.UpdateStatus(ctx, SystemActor, b.ID, models.StatusCancelled, "expired: no response before the scheduled time")
		if errors.Is(err, storage.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("expire booking %d: %w", b.ID, err)
		}
		expired++
	}
	return expired, nil
}

// checkAccess allows admins, the system, the booking's customer and the
// user behind the booking's provider profile.
func (s *bookingService) checkAccess(ctx context.Context, actor Actor, b *models.Booking) error {
	return bookingAccess(ctx, s.stg, actor, b)
}

func bookingAccess(ctx context.Context, stg storage.IStorage, actor Actor, b *models.Booking) error {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSystem:
		return nil
	case models.RoleCustomer:
		if b.CustomerID == actor.UserID {
			return nil
		}
	case models.RoleProvider:
		profile, err := stg.Provider().GetByUserID(ctx, actor.UserID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if profile != nil && profile.ID == b.ProviderID {
			return nil
		}
	}
	return ErrForbidden
}
