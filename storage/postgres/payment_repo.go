package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
)

type paymentRepo struct {
	db *gorm.DB
}

// Create relies on the unique index on payments.booking_id for the
// one-payment-per-booking rule.
func (r paymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	created := *payment
	if created.Status == "" {
		created.Status = models.PaymentCompleted
	}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r paymentRepo) GetByBookingID(ctx context.Context, bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		return nil, mapErr(err)
	}
	return &payment, nil
}

func (r paymentRepo) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id DESC").Find(&payments).Error; err != nil {
		return nil, mapErr(err)
	}
	return payments, nil
}

func (r paymentRepo) ListByProvider(ctx context.Context, providerID uint) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("id DESC").Find(&payments).Error; err != nil {
		return nil, mapErr(err)
	}
	return payments, nil
}
