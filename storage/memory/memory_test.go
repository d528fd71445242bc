package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type fixture struct {
	stg      *MemStorage
	customer *models.User
	provider *models.ProviderProfile
	service  *models.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	stg := New()

	customer, err := stg.User().Create(ctx, &models.User{Username: "carol", Email: "carol@example.com", FullName: "Carol Customer", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	pu, err := stg.User().Create(ctx, &models.User{Username: "pete", Email: "pete@example.com", FullName: "Pete Plumber", Role: models.RoleProvider})
	if err != nil {
		t.Fatalf("create provider user: %v", err)
	}
	profile, err := stg.Provider().Create(ctx, &models.ProviderProfile{UserID: pu.ID, BusinessName: "Pete's Pipes", Category: "plumbing", HourlyRate: 50})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	svc, err := stg.Service().Create(ctx, &models.Service{Name: "Plumbing", Category: "plumbing"})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return fixture{stg: stg, customer: customer, provider: profile, service: svc}
}

func (f fixture) booking(t *testing.T, status models.BookingStatus) *models.Booking {
	t.Helper()
	b, err := f.stg.Booking().Create(context.Background(), &models.Booking{
		CustomerID:  f.customer.ID,
		ProviderID:  f.provider.ID,
		ServiceID:   f.service.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestUserUniqueness(t *testing.T) {
	f := newFixture(t)
	_, err := f.stg.User().Create(context.Background(), &models.User{Username: "CAROL", Email: "other@example.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict on duplicate username, got %v", err)
	}
	_, err = f.stg.User().Create(context.Background(), &models.User{Username: "other", Email: "Carol@Example.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestProviderProfileOnePerUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.stg.Provider().Create(context.Background(), &models.ProviderProfile{UserID: f.provider.UserID})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBookingCreateDefaultsToRequested(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, "")
	if b.Status != models.StatusRequested {
		t.Fatalf("expected requested, got %s", b.Status)
	}
	if b.ID != 1 {
		t.Fatalf("expected id 1, got %d", b.ID)
	}
}

func TestBookingCreateUnknownService(t *testing.T) {
	f := newFixture(t)
	_, err := f.stg.Booking().Create(context.Background(), &models.Booking{
		CustomerID: f.customer.ID,
		ProviderID: f.provider.ID,
		ServiceID:  99,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetWithDetailsJoins(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, models.StatusCompleted)
	ctx := context.Background()

	if _, err := f.stg.Payment().Create(ctx, &models.Payment{BookingID: b.ID, CustomerID: f.customer.ID, ProviderID: f.provider.ID, Amount: 50}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	d, err := f.stg.Booking().GetWithDetails(ctx, b.ID)
	if err != nil {
		t.Fatalf("get details: %v", err)
	}
	if d.Customer.Username != "carol" {
		t.Fatalf("customer not joined: %+v", d.Customer)
	}
	if d.Provider.BusinessName != "Pete's Pipes" || d.Provider.User.FullName != "Pete Plumber" {
		t.Fatalf("provider not joined: %+v", d.Provider)
	}
	if d.Service.Name != "Plumbing" {
		t.Fatalf("service not joined: %+v", d.Service)
	}
	if d.Payment == nil || d.Payment.Amount != 50 {
		t.Fatalf("payment not joined: %+v", d.Payment)
	}
	if d.Review != nil {
		t.Fatalf("unexpected review: %+v", d.Review)
	}
	if d.Contact == nil || d.Contact.ProviderEmail != "pete@example.com" {
		t.Fatalf("contact not joined: %+v", d.Contact)
	}
}

func TestUpdateStatusCompareAndSet(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, models.StatusRequested)
	ctx := context.Background()

	updated, err := f.stg.Booking().UpdateStatus(ctx, b.ID, models.StatusRequested, models.StatusAccepted, "see you")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusAccepted || updated.StatusNote != "see you" {
		t.Fatalf("unexpected booking: %+v", updated)
	}

	_, err = f.stg.Booking().UpdateStatus(ctx, b.ID, models.StatusRequested, models.StatusRejected, "")
	if !errors.Is(err, storage.ErrStaleStatus) {
		t.Fatalf("expected stale status, got %v", err)
	}
}

func TestUpdateStatusConcurrent(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, models.StatusRequested)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.stg.Booking().UpdateStatus(context.Background(), b.ID, models.StatusRequested, models.StatusCancelled, "")
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if winners != 1 {
		t.Fatalf("expected exactly one successful update, got %d", winners)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	for i, status := range []models.BookingStatus{models.StatusRequested, models.StatusAccepted, models.StatusRequested} {
		_, err := f.stg.Booking().Create(ctx, &models.Booking{
			CustomerID:  f.customer.ID,
			ProviderID:  f.provider.ID,
			ServiceID:   f.service.ID,
			ScheduledAt: now.Add(time.Duration(i+1) * time.Hour),
			Status:      status,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := f.stg.Booking().List(ctx, storage.BookingFilter{CustomerID: f.customer.ID, Status: models.StatusRequested})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 requested bookings, got %d", len(list))
	}
	if !list[0].ScheduledAt.After(list[1].ScheduledAt) {
		t.Fatalf("expected newest scheduled first")
	}

	window, err := f.stg.Booking().List(ctx, storage.BookingFilter{
		ScheduledFrom: now.Add(90 * time.Minute),
		ScheduledTo:   now.Add(150 * time.Minute),
	})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 1 || window[0].Status != models.StatusAccepted {
		t.Fatalf("expected the accepted booking in the window, got %d", len(window))
	}

	counts, err := f.stg.Booking().CountByStatus(ctx, storage.BookingFilter{ProviderID: f.provider.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[models.StatusRequested] != 2 || counts[models.StatusAccepted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestSecondPaymentAndReviewConflict(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, models.StatusCompleted)
	ctx := context.Background()

	p := &models.Payment{BookingID: b.ID, CustomerID: f.customer.ID, ProviderID: f.provider.ID, Amount: 10, Method: models.MethodCash}
	if _, err := f.stg.Payment().Create(ctx, p); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := f.stg.Payment().Create(ctx, p); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected payment conflict, got %v", err)
	}

	r := &models.Review{BookingID: b.ID, CustomerID: f.customer.ID, ProviderID: f.provider.ID, Rating: 5}
	if _, err := f.stg.Review().Create(ctx, r); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := f.stg.Review().Create(ctx, r); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected review conflict, got %v", err)
	}
}

func TestReviewStatsAndListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, rating := range []int{5, 4, 5} {
		b := f.booking(t, models.StatusApproved)
		if _, err := f.stg.Review().Create(ctx, &models.Review{BookingID: b.ID, CustomerID: f.customer.ID, ProviderID: f.provider.ID, Rating: rating}); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	stats, err := f.stg.Review().Stats(ctx, f.provider.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalReviews != 3 || stats.AvgRating != 4.67 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Distribution[5] != 2 || stats.Distribution[4] != 1 || stats.Distribution[1] != 0 {
		t.Fatalf("unexpected distribution: %v", stats.Distribution)
	}

	page, total, err := f.stg.Review().ListByProvider(ctx, f.provider.ID, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(page), total)
	}
	if page[0].Customer.Username != "carol" {
		t.Fatalf("author not joined: %+v", page[0].Customer)
	}
}

func TestSearchProviders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eu, _ := f.stg.User().Create(ctx, &models.User{Username: "ella", Email: "ella@example.com", FullName: "Ella Sparks", Role: models.RoleProvider})
	ep, err := f.stg.Provider().Create(ctx, &models.ProviderProfile{UserID: eu.ID, BusinessName: "Bright Wiring", Category: "electrical", IsVerified: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.stg.Provider().SetRating(ctx, ep.ID, 4.5, 2); err != nil {
		t.Fatalf("set rating: %v", err)
	}

	all, total, err := f.stg.Provider().Search(ctx, storage.ProviderFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || all[0].ID != ep.ID {
		t.Fatalf("expected highest rated first, got %+v", all)
	}

	byName, _, _ := f.stg.Provider().Search(ctx, storage.ProviderFilter{Query: "sparks"})
	if len(byName) != 1 || byName[0].User.Username != "ella" {
		t.Fatalf("full-name search failed: %+v", byName)
	}

	verified, _, _ := f.stg.Provider().Search(ctx, storage.ProviderFilter{VerifiedOnly: true})
	if len(verified) != 1 {
		t.Fatalf("expected 1 verified provider, got %d", len(verified))
	}

	unverified := false
	pending, _, _ := f.stg.Provider().Search(ctx, storage.ProviderFilter{Verified: &unverified})
	if len(pending) != 1 || pending[0].ID != f.provider.ID {
		t.Fatalf("expected the unverified provider, got %+v", pending)
	}

	rated, _, _ := f.stg.Provider().Search(ctx, storage.ProviderFilter{MinRating: 4})
	if len(rated) != 1 {
		t.Fatalf("expected 1 provider rated >= 4, got %d", len(rated))
	}

	paged, total, _ := f.stg.Provider().Search(ctx, storage.ProviderFilter{Page: 2, Limit: 1})
	if total != 2 || len(paged) != 1 || paged[0].ID != f.provider.ID {
		t.Fatalf("unexpected second page: %+v", paged)
	}
}

func TestServiceDeleteReferenced(t *testing.T) {
	f := newFixture(t)
	f.booking(t, models.StatusRequested)
	if err := f.stg.Service().Delete(context.Background(), f.service.ID); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPlatformStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, models.StatusCompleted)
	f.booking(t, models.StatusRequested)
	if _, err := f.stg.Payment().Create(ctx, &models.Payment{BookingID: b.ID, Amount: 75}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if _, err := f.stg.Credential().Create(ctx, &models.Credential{ProviderID: f.provider.ID, Name: "License"}); err != nil {
		t.Fatalf("credential: %v", err)
	}

	stats, err := f.stg.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalCustomers != 1 || stats.TotalProviders != 1 {
		t.Fatalf("unexpected user counts: %+v", stats)
	}
	if stats.TotalBookings != 2 || stats.BookingsByStatus[models.StatusCompleted] != 1 {
		t.Fatalf("unexpected booking counts: %+v", stats)
	}
	if stats.TotalRevenue != 75 || stats.PendingCredentials != 1 {
		t.Fatalf("unexpected revenue/credentials: %+v", stats)
	}
}

func TestProviderUpdateKeepsCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale, err := f.stg.Provider().GetByID(ctx, f.provider.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := f.stg.Provider().SetRating(ctx, f.provider.ID, 4.5, 2); err != nil {
		t.Fatalf("set rating: %v", err)
	}
	if err := f.stg.Provider().IncrementCompletedJobs(ctx, f.provider.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	stale.IsVerified = true
	stale.BusinessName = "Pete's Pipes & Co"
	stale.Rating = 1
	stale.CompletedJobs = 99
	updated, err := f.stg.Provider().Update(ctx, stale)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 4.5 || updated.ReviewCount != 2 || updated.CompletedJobs != 1 {
		t.Fatalf("counters overwritten: rating=%v reviews=%d jobs=%d", updated.Rating, updated.ReviewCount, updated.CompletedJobs)
	}
	if !updated.IsVerified || updated.BusinessName != "Pete's Pipes & Co" {
		t.Fatalf("editable fields not applied: %+v", updated)
	}

	stored, _ := f.stg.Provider().GetByID(ctx, f.provider.ID)
	if stored.Rating != 4.5 || stored.CompletedJobs != 1 {
		t.Fatalf("stored counters = %v/%d", stored.Rating, stored.CompletedJobs)
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	providers, total, err := f.stg.Provider().Search(ctx, storage.ProviderFilter{Query: "nobody matches this"})
	if err != nil || total != 0 {
		t.Fatalf("search: %d %v", total, err)
	}
	reviews, _, err := f.stg.Review().ListByProvider(ctx, f.provider.ID, 1, 10)
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}

	for name, v := range map[string]interface{}{"providers": providers, "reviews": reviews} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if string(raw) != "[]" {
			t.Fatalf("%s encoded as %s, want []", name, raw)
		}
	}
}
