package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type bookingRepo struct {
	db *gorm.DB
}

func (r bookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	created := *booking
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, mapErr(err)
	}
	return &created, nil
}

func (r bookingRepo) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &booking, nil
}

func (r bookingRepo) GetWithDetails(ctx context.Context, id uint) (*storage.BookingDetails, error) {
	booking, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := r.details(r.db.WithContext(ctx), []models.Booking{*booking})
	if err != nil {
		return nil, mapErr(err)
	}
	return details[0], nil
}

func (r bookingRepo) List(ctx context.Context, filter storage.BookingFilter) ([]*storage.BookingDetails, error) {
	db := r.db.WithContext(ctx)
	var bookings []models.Booking
	if err := applyBookingFilter(db.Model(&models.Booking{}), filter).
		Order("scheduled_at DESC, id DESC").
		Find(&bookings).Error; err != nil {
		return nil, mapErr(err)
	}
	details, err := r.details(db, bookings)
	if err != nil {
		return nil, mapErr(err)
	}
	return details, nil
}

// UpdateStatus is a compare-and-set on the current status.
func (r bookingRepo) UpdateStatus(ctx context.Context, id uint, from, to models.BookingStatus, note string) (*models.Booking, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"status_note": note,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, storage.ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

func (r bookingRepo) CountByStatus(ctx context.Context, filter storage.BookingFilter) (map[models.BookingStatus]int, error) {
	var rows []struct {
		Status models.BookingStatus
		N      int
	}
	if err := applyBookingFilter(r.db.WithContext(ctx).Model(&models.Booking{}), filter).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, mapErr(err)
	}
	counts := make(map[models.BookingStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func applyBookingFilter(q *gorm.DB, f storage.BookingFilter) *gorm.DB {
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.ProviderID != 0 {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.ScheduledFrom.IsZero() {
		q = q.Where("scheduled_at >= ?", f.ScheduledFrom)
	}
	if !f.ScheduledTo.IsZero() {
		q = q.Where("scheduled_at < ?", f.ScheduledTo)
	}
	return q
}

// details batch-loads the related rows of bookings, one query per table.
func (r bookingRepo) details(db *gorm.DB, bookings []models.Booking) ([]*storage.BookingDetails, error) {
	out := make([]*storage.BookingDetails, 0, len(bookings))
	if len(bookings) == 0 {
		return out, nil
	}

	var bookingIDs, providerIDs, serviceIDs, userIDs []uint
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
		providerIDs = append(providerIDs, b.ProviderID)
		serviceIDs = append(serviceIDs, b.ServiceID)
		userIDs = append(userIDs, b.CustomerID)
	}

	var providers []models.ProviderProfile
	if err := db.Where("id IN ?", providerIDs).Find(&providers).Error; err != nil {
		return nil, err
	}
	providerByID := make(map[uint]models.ProviderProfile, len(providers))
	for _, p := range providers {
		providerByID[p.ID] = p
		userIDs = append(userIDs, p.UserID)
	}

	var users []models.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	userByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	var services []models.Service
	if err := db.Where("id IN ?", serviceIDs).Find(&services).Error; err != nil {
		return nil, err
	}
	serviceByID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		serviceByID[s.ID] = s
	}

	var payments []models.Payment
	if err := db.Where("booking_id IN ?", bookingIDs).Find(&payments).Error; err != nil {
		return nil, err
	}
	paymentByBooking := make(map[uint]*models.Payment, len(payments))
	for i := range payments {
		paymentByBooking[payments[i].BookingID] = &payments[i]
	}

	var reviews []models.Review
	if err := db.Where("booking_id IN ?", bookingIDs).Find(&reviews).Error; err != nil {
		return nil, err
	}
	reviewByBooking := make(map[uint]*models.Review, len(reviews))
	for i := range reviews {
		reviewByBooking[reviews[i].BookingID] = &reviews[i]
	}

	for _, b := range bookings {
		customer := userByID[b.CustomerID]
		provider := providerByID[b.ProviderID]
		providerUser := userByID[provider.UserID]
		out = append(out, &storage.BookingDetails{
			Booking:  b,
			Customer: customer.Public(),
			Provider: storage.ProviderWithUser{ProviderProfile: provider, User: providerUser.Public()},
			Service:  serviceByID[b.ServiceID],
			Payment:  paymentByBooking[b.ID],
			Review:   reviewByBooking[b.ID],
			Contact: &storage.BookingContactDetails{
				CustomerEmail: customer.Email,
				CustomerPhone: customer.Phone,
				ProviderEmail: providerUser.Email,
				ProviderPhone: providerUser.Phone,
			},
		})
	}
	return out, nil
}
