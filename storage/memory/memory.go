// Package memory is a map-backed implementation of storage.IStorage used
// for local development and tests. It mirrors the relational schema: one map
// per table, an auto-increment counter per table and hand-written joins.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type MemStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	users       map[uint]models.User
	services    map[uint]models.Service
	providers   map[uint]models.ProviderProfile
	credentials map[uint]models.Credential
	bookings    map[uint]models.Booking
	payments    map[uint]models.Payment
	reviews     map[uint]models.Review

	userSeq       uint
	serviceSeq    uint
	providerSeq   uint
	credentialSeq uint
	bookingSeq    uint
	paymentSeq    uint
	reviewSeq     uint
}

func New() *MemStorage {
	return &MemStorage{
		now:         time.Now,
		users:       make(map[uint]models.User),
		services:    make(map[uint]models.Service),
		providers:   make(map[uint]models.ProviderProfile),
		credentials: make(map[uint]models.Credential),
		bookings:    make(map[uint]models.Booking),
		payments:    make(map[uint]models.Payment),
		reviews:     make(map[uint]models.Review),
	}
}

// WithClock replaces the clock used for created_at/updated_at stamps.
func (m *MemStorage) WithClock(now func() time.Time) *MemStorage {
	m.now = now
	return m
}

func (m *MemStorage) User() storage.IUserStorage             { return userRepo{m} }
func (m *MemStorage) Service() storage.IServiceStorage       { return serviceRepo{m} }
func (m *MemStorage) Provider() storage.IProviderStorage     { return providerRepo{m} }
func (m *MemStorage) Credential() storage.ICredentialStorage { return credentialRepo{m} }
func (m *MemStorage) Booking() storage.IBookingStorage       { return bookingRepo{m} }
func (m *MemStorage) Payment() storage.IPaymentStorage       { return paymentRepo{m} }
func (m *MemStorage) Review() storage.IReviewStorage         { return reviewRepo{m} }

func (m *MemStorage) Close() error { return nil }

func (m *MemStorage) Stats(ctx context.Context) (*storage.PlatformStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &storage.PlatformStats{
		TotalUsers:       len(m.users),
		TotalServices:    len(m.services),
		TotalBookings:    len(m.bookings),
		TotalReviews:     len(m.reviews),
		BookingsByStatus: make(map[models.BookingStatus]int),
	}
	for _, u := range m.users {
		switch u.Role {
		case models.RoleCustomer:
			stats.TotalCustomers++
		case models.RoleProvider:
			stats.TotalProviders++
		}
	}
	var ratingSum float64
	var rated int
	for _, p := range m.providers {
		if p.IsVerified {
			stats.VerifiedProviders++
		}
		if p.ReviewCount > 0 {
			ratingSum += p.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageProviderScore = ratingSum / float64(rated)
	}
	for _, c := range m.credentials {
		if c.Status == models.CredentialPending {
			stats.PendingCredentials++
		}
	}
	for _, b := range m.bookings {
		stats.BookingsByStatus[b.Status]++
	}
	for _, p := range m.payments {
		if p.Status == models.PaymentCompleted {
			stats.TotalRevenue += p.Amount
		}
	}
	return stats, nil
}

// paginate returns the [start:end) window for a page of size limit.
func paginate(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
