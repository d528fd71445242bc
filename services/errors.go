package services

import "errors"

var (
	ErrForbidden          = errors.New("you don't have permission to perform this action")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserExists         = errors.New("user with this username or email already exists")
	ErrProfileExists      = errors.New("provider profile already exists")
	ErrProfileRequired    = errors.New("provider profile not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrBookingNotFinished = errors.New("booking is not completed")
	ErrAlreadyPaid        = errors.New("booking has already been paid")
	ErrAlreadyReviewed    = errors.New("booking has already been reviewed")
	ErrCredentialLocked   = errors.New("verified credentials cannot be deleted")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
