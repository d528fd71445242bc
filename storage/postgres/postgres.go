// Package postgres implements storage.IStorage on top of GORM.
package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type Store struct {
	db *gorm.DB
}

// New wraps an open connection. The connection must be opened with
// TranslateError so that unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) User() storage.IUserStorage             { return userRepo{s.db} }
func (s *Store) Service() storage.IServiceStorage       { return serviceRepo{s.db} }
func (s *Store) Provider() storage.IProviderStorage     { return providerRepo{s.db} }
func (s *Store) Credential() storage.ICredentialStorage { return credentialRepo{s.db} }
func (s *Store) Booking() storage.IBookingStorage       { return bookingRepo{s.db} }
func (s *Store) Payment() storage.IPaymentStorage       { return paymentRepo{s.db} }
func (s *Store) Review() storage.IReviewStorage         { return reviewRepo{s.db} }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Stats(ctx context.Context) (*storage.PlatformStats, error) {
	db := s.db.WithContext(ctx)
	stats := &storage.PlatformStats{BookingsByStatus: make(map[models.BookingStatus]int)}

	count := func(model interface{}, dst *int, where ...interface{}) error {
		var n int64
		q := db.Model(model)
		if len(where) > 0 {
			q = q.Where(where[0], where[1:]...)
		}
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		*dst = int(n)
		return nil
	}

	steps := []error{
		count(&models.User{}, &stats.TotalUsers),
		count(&models.User{}, &stats.TotalCustomers, "role = ?", models.RoleCustomer),
		count(&models.User{}, &stats.TotalProviders, "role = ?", models.RoleProvider),
		count(&models.ProviderProfile{}, &stats.VerifiedProviders, "is_verified = ?", true),
		count(&models.Credential{}, &stats.PendingCredentials, "status = ?", models.CredentialPending),
		count(&models.Service{}, &stats.TotalServices),
		count(&models.Booking{}, &stats.TotalBookings),
		count(&models.Review{}, &stats.TotalReviews),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	var byStatus []struct {
		Status models.BookingStatus
		N      int
	}
	if err := db.Model(&models.Booking{}).Select("status, count(*) as n").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.BookingsByStatus[row.Status] = row.N
	}

	if err := db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ProviderProfile{}).
		Where("review_count > 0").
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageProviderScore).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere in
// the column. Backslash is the default LIKE escape character in Postgres.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// mapErr converts GORM errors into storage sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return storage.ErrNotFound
	}
	return err
}

// publicUsers loads the public view of the given users keyed by id.
func publicUsers(db *gorm.DB, ids []uint) (map[uint]models.PublicUser, error) {
	out := make(map[uint]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Public()
	}
	return out, nil
}
