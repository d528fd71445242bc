package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

// AdminUsername belongs to the seeded admin account and cannot be taken at
// sign-up.
const AdminUsername = "admin"

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error)
	UploadProfilePicture(ctx context.Context, id uint, file io.Reader, filename string) (*models.User, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	ConsumeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	stg      storage.IUserStorage
	log      logger.ILogger
	uploader Uploader
	cache    Cache
}

func NewAuthService(stg storage.IStorage, log logger.ILogger, uploader Uploader, cache Cache) AuthService {
	return &authService{
		stg:      stg.User(),
		log:      log,
		uploader: uploader,
		cache:    cache,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Registrable() {
		return nil, fmt.Errorf("%w: %q cannot be chosen at sign-up", ErrInvalidRole, role)
	}

	if strings.EqualFold(strings.TrimSpace(req.Username), AdminUsername) {
		return nil, ErrUserExists
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.stg.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if _, err := s.stg.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.stg.Create(ctx, &models.User{
		Username: req.Username,
		Email:    email,
		Password: hashed,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     role,
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", logger.Uint("user_id", user.ID), logger.String("role", string(user.Role)))
	return user, nil
}

// Login accepts the username or the email address in req.Username.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(req.Username, "@") {
		user, err = s.stg.GetByEmail(ctx, strings.TrimSpace(req.Username))
	} else {
		user, err = s.stg.GetByUsername(ctx, strings.TrimSpace(req.Username))
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *authService) UpdateUser(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.EqualFold(email, user.Email) {
			existing, err := s.stg.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, ErrUserExists
			}
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	updated, err := s.stg.Update(ctx, user)
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrUserExists
	}
	return updated, err
}

func (s *authService) UploadProfilePicture(ctx context.Context, id uint, file io.Reader, filename string) (*models.User, error) {
	user, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file, "profile_pictures", filename)
	if err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	user.ProfilePicture = url
	return s.stg.Update(ctx, user)
}

// Logout deny-lists the token id until the token would have expired anyway.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	_, err := s.cache.Revoke(ctx, tokenID, ttl)
	return err
}

// ConsumeToken revokes a single-use token. Only the first caller for a given
// id succeeds; later calls get ErrTokenRevoked.
func (s *authService) ConsumeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return ErrTokenRevoked
	}
	fresh, err := s.cache.Revoke(ctx, tokenID, ttl)
	if err != nil {
		return err
	}
	if !fresh {
		return ErrTokenRevoked
	}
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.IsRevoked(ctx, tokenID)
}
