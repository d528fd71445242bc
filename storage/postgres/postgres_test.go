package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/db"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"pipes":    `%pipes%`,
		"100%":     `%100\%%`,
		"a_b":      `%a\_b%`,
		`c:\tools`: `%c:\\tools%`,
	}
	for in, want := range cases {
		if got := containsPattern(in); got != want {
			t.Fatalf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapErr(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{gorm.ErrRecordNotFound, storage.ErrNotFound},
		{fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), storage.ErrConflict},
		{gorm.ErrForeignKeyViolated, storage.ErrNotFound},
	}
	for _, tc := range cases {
		if got := mapErr(tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if mapErr(nil) != nil {
		t.Fatalf("mapErr(nil) should be nil")
	}
	other := errors.New("boom")
	if got := mapErr(other); got != other {
		t.Fatalf("unexpected passthrough: %v", got)
	}
}

// openTestStore connects to TEST_DATABASE_URL and resets the schema. Tests
// that need it are skipped when the variable is not set.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := db.Init(config.Config{DatabaseURL: dsn}, logger.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Exec("TRUNCATE users, services, provider_profiles, credentials, bookings, payments, reviews RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	s := New(gdb)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	stg      *Store
	customer *models.User
	provider *models.ProviderProfile
	service  *models.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	stg := openTestStore(t)

	customer, err := stg.User().Create(ctx, &models.User{Username: "carol", Email: "carol@example.com", Password: "x", FullName: "Carol Customer", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	pu, err := stg.User().Create(ctx, &models.User{Username: "pete", Email: "pete@example.com", Password: "x", FullName: "Pete Plumber", Role: models.RoleProvider})
	if err != nil {
		t.Fatalf("create provider user: %v", err)
	}
	profile, err := stg.Provider().Create(ctx, &models.ProviderProfile{UserID: pu.ID, BusinessName: "Pete's Pipes", Description: "100% leak free", Category: "plumbing", HourlyRate: 50})
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

func TestUpdateStatusCompareAndSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, models.StatusRequested)

	updated, err := f.stg.Booking().UpdateStatus(ctx, b.ID, models.StatusRequested, models.StatusAccepted, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}

	if _, err := f.stg.Booking().UpdateStatus(ctx, b.ID, models.StatusRequested, models.StatusRejected, ""); !errors.Is(err, storage.ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}
	if _, err := f.stg.Booking().UpdateStatus(ctx, 9999, models.StatusRequested, models.StatusAccepted, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSecondPaymentConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, models.StatusCompleted)

	payment := func() error {
		_, err := f.stg.Payment().Create(ctx, &models.Payment{BookingID: b.ID, CustomerID: f.customer.ID, ProviderID: f.provider.ID, Amount: 50})
		return err
	}
	if err := payment(); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if err := payment(); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pu, err := f.stg.User().Create(ctx, &models.User{Username: "sam", Email: "sam@example.com", Password: "x", FullName: "Sam Sparks", Role: models.RoleProvider})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := f.stg.Provider().Create(ctx, &models.ProviderProfile{UserID: pu.ID, BusinessName: "Sparks Electric", Description: "Fully licensed", Category: "electrical"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"%", 1},
		{"_", 0},
		{"pipes", 1},
		{"sparks", 1},
	} {
		list, total, err := f.stg.Provider().Search(ctx, storage.ProviderFilter{Query: tc.query})
		if err != nil {
			t.Fatalf("search %q: %v", tc.query, err)
		}
		if total != tc.want || len(list) != tc.want {
			t.Fatalf("search %q: got %d (total %d), want %d", tc.query, len(list), total, tc.want)
		}
	}
}
