package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type PaymentService interface {
	Create(ctx context.Context, actor Actor, req models.CreatePaymentRequest) (*models.Payment, error)
	GetForBooking(ctx context.Context, actor Actor, bookingID uint) (*models.Payment, error)
	ListMine(ctx context.Context, actor Actor) ([]*models.Payment, error)
}

type paymentService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewPaymentService(stg storage.IStorage, log logger.ILogger) PaymentService {
	return &paymentService{
		stg: stg,
		log: log,
	}
}

// Create records the payment of a finished booking by its customer. The
// amount is always the booking's total price.
func (s *paymentService) Create(ctx context.Context, actor Actor, req models.CreatePaymentRequest) (*models.Payment, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.Method)
	}
	booking, err := s.stg.Booking().GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != actor.UserID {
		return nil, fmt.Errorf("%w: only the booking's customer can pay", ErrForbidden)
	}
	if !booking.Status.IsFinished() {
		return nil, fmt.Errorf("%w: status is %s", ErrBookingNotFinished, booking.Status)
	}
	if _, err := s.stg.Payment().GetByBookingID(ctx, booking.ID); err == nil {
		return nil, ErrAlreadyPaid
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	payment, err := s.stg.Payment().Create(ctx, &models.Payment{
		BookingID:      booking.ID,
		CustomerID:     booking.CustomerID,
		ProviderID:     booking.ProviderID,
		Amount:         booking.TotalPrice,
		Method:         req.Method,
		Status:         models.PaymentCompleted,
		TransactionRef: "txn_" + uuid.NewString(),
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrAlreadyPaid
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		logger.Uint("payment_id", payment.ID),
		logger.Uint("booking_id", booking.ID),
		logger.Any("amount", payment.Amount),
	)
	return payment, nil
}

func (s *paymentService) GetForBooking(ctx context.Context, actor Actor, bookingID uint) (*models.Payment, error) {
	booking, err := s.stg.Booking().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := bookingAccess(ctx, s.stg, actor, booking); err != nil {
		return nil, err
	}
	return s.stg.Payment().GetByBookingID(ctx, bookingID)
}

func (s *paymentService) ListMine(ctx context.Context, actor Actor) ([]*models.Payment, error) {
	switch actor.Role {
	case models.RoleCustomer:
		return s.stg.Payment().ListByCustomer(ctx, actor.UserID)
	case models.RoleProvider:
		profile, err := s.stg.Provider().GetByUserID(ctx, actor.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			return []*models.Payment{}, nil
		}
		if err != nil {
			return nil, err
		}
		return s.stg.Payment().ListByProvider(ctx, profile.ID)
	}
	return nil, ErrForbidden
}
