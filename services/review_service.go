package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type ReviewService interface {
	Create(ctx context.Context, actor Actor, req models.CreateReviewRequest) (*models.Review, error)
	GetForBooking(ctx context.Context, actor Actor, bookingID uint) (*models.Review, error)
	RecomputeRatings(ctx context.Context) (int, error)
}

type reviewService struct {
	stg    storage.IStorage
	log    logger.ILogger
	notify notifier
}

func NewReviewService(stg storage.IStorage, log logger.ILogger, n notifier) ReviewService {
	return &reviewService{
		stg:    stg,
		log:    log,
		notify: n,
	}
}

func (s *reviewService) Create(ctx context.Context, actor Actor, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	booking, err := s.stg.Booking().GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != actor.UserID {
		return nil, fmt.Errorf("%w: only the booking's customer can review it", ErrForbidden)
	}
	if !booking.Status.IsFinished() {
		return nil, fmt.Errorf("%w: status is %s", ErrBookingNotFinished, booking.Status)
	}
	if _, err := s.stg.Review().GetByBookingID(ctx, booking.ID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	review, err := s.stg.Review().Create(ctx, &models.Review{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, booking.ProviderID); err != nil {
		s.log.Error("failed to refresh provider rating", logger.Uint("provider_id", booking.ProviderID), logger.Error(err))
	}
	if details, err := s.stg.Booking().GetWithDetails(ctx, booking.ID); err == nil {
		s.notify.reviewReceived(ctx, details, review)
	}
	return review, nil
}

func (s *reviewService) GetForBooking(ctx context.Context, actor Actor, bookingID uint) (*models.Review, error) {
	booking, err := s.stg.Booking().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := bookingAccess(ctx, s.stg, actor, booking); err != nil {
		return nil, err
	}
	return s.stg.Review().GetByBookingID(ctx, bookingID)
}

// RecomputeRatings rebuilds every provider's rating from its reviews and
// returns the number of providers updated. Ids are collected first because
// the search order depends on the ratings being rewritten.
func (s *reviewService) RecomputeRatings(ctx context.Context) (int, error) {
	var ids []uint
	for page := 1; ; page++ {
		providers, total, err := s.stg.Provider().Search(ctx, storage.ProviderFilter{Page: page, Limit: 100})
		if err != nil {
			return 0, err
		}
		for _, p := range providers {
			ids = append(ids, p.ID)
		}
		if len(providers) == 0 || page*100 >= total {
			break
		}
	}

	for i, id := range ids {
		if err := s.refreshRating(ctx, id); err != nil {
			return i, fmt.Errorf("provider %d: %w", id, err)
		}
	}
	return len(ids), nil
}

func (s *reviewService) refreshRating(ctx context.Context, providerID uint) error {
	stats, err := s.stg.Review().Stats(ctx, providerID)
	if err != nil {
		return err
	}
	var profile models.ProviderProfile
	profile.ApplyRating(stats.RatingSum, stats.TotalReviews)
	return s.stg.Provider().SetRating(ctx, providerID, profile.Rating, profile.ReviewCount)
}
