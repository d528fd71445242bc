package storage

import (
	"context"
	"errors"
	"time"

	"github.com/meinhoongagan/home-services/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
	// ErrStaleStatus is returned when a booking's status changed between
	// read and write.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)

type IStorage interface {
	User() IUserStorage
	Service() IServiceStorage
	Provider() IProviderStorage
	Credential() ICredentialStorage
	Booking() IBookingStorage
	Payment() IPaymentStorage
	Review() IReviewStorage
	Stats(ctx context.Context) (*PlatformStats, error)
	Close() error
}

type IUserStorage interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context, role models.Role) ([]*models.User, error)
}

type IServiceStorage interface {
	Create(ctx context.Context, service *models.Service) (*models.Service, error)
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, category string) ([]*models.Service, error)
	Update(ctx context.Context, service *models.Service) (*models.Service, error)
	Delete(ctx context.Context, id uint) error
}

type IProviderStorage interface {
	Create(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error)
	GetByID(ctx context.Context, id uint) (*models.ProviderProfile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.ProviderProfile, error)
	Update(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error)
	Search(ctx context.Context, filter ProviderFilter) ([]*ProviderWithUser, int, error)
	IncrementCompletedJobs(ctx context.Context, id uint) error
	SetRating(ctx context.Context, id uint, rating float64, count int) error
}

type ICredentialStorage interface {
	Create(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	GetByID(ctx context.Context, id uint) (*models.Credential, error)
	ListByProvider(ctx context.Context, providerID uint) ([]*models.Credential, error)
	ListByStatus(ctx context.Context, status models.CredentialStatus) ([]*models.Credential, error)
	Update(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	Delete(ctx context.Context, id uint) error
}

type IBookingStorage interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	GetWithDetails(ctx context.Context, id uint) (*BookingDetails, error)
	List(ctx context.Context, filter BookingFilter) ([]*BookingDetails, error)
	// UpdateStatus moves the booking from one status to another only if it
	// is still in the from status.
	UpdateStatus(ctx context.Context, id uint, from, to models.BookingStatus, note string) (*models.Booking, error)
	CountByStatus(ctx context.Context, filter BookingFilter) (map[models.BookingStatus]int, error)
}

type IPaymentStorage interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uint) (*models.Payment, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.Payment, error)
	ListByProvider(ctx context.Context, providerID uint) ([]*models.Payment, error)
}

type IReviewStorage interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error)
	ListByProvider(ctx context.Context, providerID uint, page, limit int) ([]*models.ReviewWithAuthor, int, error)
	Stats(ctx context.Context, providerID uint) (*ReviewStats, error)
}

type ProviderFilter struct {
	Category     string
	Query        string
	MinRating    float64
	VerifiedOnly bool
	// Verified, when set, filters on the exact flag. Used by the admin list.
	Verified *bool
	Page     int
	Limit    int
}

type ProviderWithUser struct {
	models.ProviderProfile
	User models.PublicUser `json:"user"`
}

type BookingFilter struct {
	CustomerID uint
	ProviderID uint
	Status     models.BookingStatus
	// ScheduledFrom/ScheduledTo bound scheduled_at, inclusive from and
	// exclusive to. Zero values are ignored.
	ScheduledFrom time.Time
	ScheduledTo   time.Time
}

// BookingDetails is a booking joined with everything a booking page shows.
type BookingDetails struct {
	models.Booking
	Customer models.PublicUser      `json:"customer"`
	Provider ProviderWithUser       `json:"provider"`
	Service  models.Service         `json:"service"`
	Payment  *models.Payment        `json:"payment,omitempty"`
	Review   *models.Review         `json:"review,omitempty"`
	Contact  *BookingContactDetails `json:"contact,omitempty"`
}

// BookingContactDetails is only filled for the two parties of a booking.
type BookingContactDetails struct {
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	ProviderEmail string `json:"provider_email"`
	ProviderPhone string `json:"provider_phone"`
}

type ReviewStats struct {
	ProviderID   uint        `json:"provider_id"`
	TotalReviews int         `json:"total_reviews"`
	RatingSum    int         `json:"-"`
	AvgRating    float64     `json:"average_rating"`
	Distribution map[int]int `json:"distribution"`
}

type PlatformStats struct {
	TotalUsers           int                          `json:"total_users"`
	TotalCustomers       int                          `json:"total_customers"`
	TotalProviders       int                          `json:"total_providers"`
	VerifiedProviders    int                          `json:"verified_providers"`
	PendingCredentials   int                          `json:"pending_credentials"`
	TotalServices        int                          `json:"total_services"`
	TotalBookings        int                          `json:"total_bookings"`
	BookingsByStatus     map[models.BookingStatus]int `json:"bookings_by_status"`
	TotalRevenue         float64                      `json:"total_revenue"`
	TotalReviews         int                          `json:"total_reviews"`
	AverageProviderScore float64                      `json:"average_provider_rating"`
}

// NormalizePage clamps paging arguments the way every list endpoint does.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
