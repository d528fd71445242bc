package memory

import (
	"context"
	"sort"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type paymentRepo struct {
	m *MemStorage
}

func (r paymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.bookings[payment.BookingID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, p := range r.m.payments {
		if p.BookingID == payment.BookingID {
			return nil, storage.ErrConflict
		}
	}

	r.m.paymentSeq++
	created := *payment
	created.ID = r.m.paymentSeq
	if created.Status == "" {
		created.Status = models.PaymentCompleted
	}
	created.CreatedAt = r.m.now()
	r.m.payments[created.ID] = created
	return &created, nil
}

func (r paymentRepo) GetByBookingID(ctx context.Context, bookingID uint) (*models.Payment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, p := range r.m.payments {
		if p.BookingID == bookingID {
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r paymentRepo) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Payment, error) {
	return r.list(func(p models.Payment) bool { return p.CustomerID == customerID }), nil
}

func (r paymentRepo) ListByProvider(ctx context.Context, providerID uint) ([]*models.Payment, error) {
	return r.list(func(p models.Payment) bool { return p.ProviderID == providerID }), nil
}

func (r paymentRepo) list(keep func(models.Payment) bool) []*models.Payment {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*models.Payment, 0)
	for _, p := range r.m.payments {
		if !keep(p) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
