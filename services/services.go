package services

import (
	"context"
	"io"
	"time"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type IServiceManager interface {
	Auth() AuthService
	Catalog() CatalogService
	Provider() ProviderService
	Booking() BookingService
	Payment() PaymentService
	Review() ReviewService
	Admin() AdminService
}

// Mailer delivers HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, filename string) (string, error)
}

// Cache is a JSON value cache plus a deny-list of revoked token ids.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Revoke reports false when the id was already revoked.
	Revoke(ctx context.Context, id string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Actor is the caller of an operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

// SystemActor is used by scheduled jobs.
var SystemActor = Actor{Role: models.RoleSystem}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type service struct {
	authService     AuthService
	catalogService  CatalogService
	providerService ProviderService
	bookingService  BookingService
	paymentService  PaymentService
	reviewService   ReviewService
	adminService    AdminService
}

func New(stg storage.IStorage, log logger.ILogger, mailer Mailer, uploader Uploader, cache Cache) IServiceManager {
	n := notifier{mailer: mailer, log: log}
	return &service{
		authService:     NewAuthService(stg, log, uploader, cache),
		catalogService:  NewCatalogService(stg, log, cache),
		providerService: NewProviderService(stg, log, uploader),
		bookingService:  NewBookingService(stg, log, n, cache),
		paymentService:  NewPaymentService(stg, log),
		reviewService:   NewReviewService(stg, log, n),
		adminService:    NewAdminService(stg, log, n),
	}
}

func (s *service) Auth() AuthService         { return s.authService }
func (s *service) Catalog() CatalogService   { return s.catalogService }
func (s *service) Provider() ProviderService { return s.providerService }
func (s *service) Booking() BookingService   { return s.bookingService }
func (s *service) Payment() PaymentService   { return s.paymentService }
func (s *service) Review() ReviewService     { return s.reviewService }
func (s *service) Admin() AdminService       { return s.adminService }

// pages returns the number of pages needed for total items.
func pages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
