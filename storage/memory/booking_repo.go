package memory

import (
	"context"
	"sort"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type bookingRepo struct {
	m *MemStorage
}

func (r bookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[booking.CustomerID]; !ok {
		return nil, storage.ErrNotFound
	}
	if _, ok := r.m.providers[booking.ProviderID]; !ok {
		return nil, storage.ErrNotFound
	}
	if _, ok := r.m.services[booking.ServiceID]; !ok {
		return nil, storage.ErrNotFound
	}

	r.m.bookingSeq++
	created := *booking
	created.ID = r.m.bookingSeq
	if created.Status == "" {
		created.Status = models.StatusRequested
	}
	created.CreatedAt = r.m.now()
	created.UpdatedAt = created.CreatedAt
	r.m.bookings[created.ID] = created
	return &created, nil
}

func (r bookingRepo) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	b, ok := r.m.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (r bookingRepo) GetWithDetails(ctx context.Context, id uint) (*storage.BookingDetails, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	b, ok := r.m.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r.details(b), nil
}

func (r bookingRepo) List(ctx context.Context, filter storage.BookingFilter) ([]*storage.BookingDetails, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*storage.BookingDetails, 0)
	for _, b := range r.m.bookings {
		if matchBooking(b, filter) {
			out = append(out, r.details(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r bookingRepo) UpdateStatus(ctx context.Context, id uint, from, to models.BookingStatus, note string) (*models.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b, ok := r.m.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if b.Status != from {
		return nil, storage.ErrStaleStatus
	}
	b.Status = to
	b.StatusNote = note
	b.UpdatedAt = r.m.now()
	r.m.bookings[id] = b
	return &b, nil
}

func (r bookingRepo) CountByStatus(ctx context.Context, filter storage.BookingFilter) (map[models.BookingStatus]int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	counts := make(map[models.BookingStatus]int)
	for _, b := range r.m.bookings {
		if matchBooking(b, filter) {
			counts[b.Status]++
		}
	}
	return counts, nil
}

func matchBooking(b models.Booking, f storage.BookingFilter) bool {
	if f.CustomerID != 0 && b.CustomerID != f.CustomerID {
		return false
	}
	if f.ProviderID != 0 && b.ProviderID != f.ProviderID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if !f.ScheduledFrom.IsZero() && b.ScheduledAt.Before(f.ScheduledFrom) {
		return false
	}
	if !f.ScheduledTo.IsZero() && !b.ScheduledAt.Before(f.ScheduledTo) {
		return false
	}
	return true
}

// details must be called with the read lock held.
func (r bookingRepo) details(b models.Booking) *storage.BookingDetails {
	customer := r.m.users[b.CustomerID]
	provider := r.m.providers[b.ProviderID]
	providerUser := r.m.users[provider.UserID]

	d := &storage.BookingDetails{
		Booking:  b,
		Customer: customer.Public(),
		Provider: storage.ProviderWithUser{
			ProviderProfile: provider,
			User:            providerUser.Public(),
		},
		Service: r.m.services[b.ServiceID],
		Contact: &storage.BookingContactDetails{
			CustomerEmail: customer.Email,
			CustomerPhone: customer.Phone,
			ProviderEmail: providerUser.Email,
			ProviderPhone: providerUser.Phone,
		},
	}
	for _, p := range r.m.payments {
		if p.BookingID == b.ID {
			p := p
			d.Payment = &p
			break
		}
	}
	for _, rv := range r.m.reviews {
		if rv.BookingID == b.ID {
			rv := rv
			d.Review = &rv
			break
		}
	}
	return d
}
