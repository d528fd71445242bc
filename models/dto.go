package models

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     Role   `json:"role" validate:"omitempty,oneof=customer provider"`
}

type LoginRequest struct {
	// Login accepts either the username or the email address.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

type ServiceRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Icon        string  `json:"icon"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Icon        *string  `json:"icon"`
	BasePrice   *float64 `json:"base_price" validate:"omitempty,gte=0"`
}

type ProviderProfileRequest struct {
	BusinessName      string  `json:"business_name" validate:"required"`
	Description       string  `json:"description"`
	Category          string  `json:"category" validate:"required"`
	HourlyRate        float64 `json:"hourly_rate" validate:"gte=0"`
	YearsOfExperience int     `json:"years_of_experience" validate:"gte=0"`
	ServiceArea       string  `json:"service_area"`
	Availability      string  `json:"availability"`
}

type UpdateProviderProfileRequest struct {
	BusinessName      *string  `json:"business_name" validate:"omitempty,min=1"`
	Description       *string  `json:"description"`
	Category          *string  `json:"category" validate:"omitempty,min=1"`
	HourlyRate        *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0"`
	ServiceArea       *string  `json:"service_area"`
	Availability      *string  `json:"availability"`
}

type CredentialRequest struct {
	Type          string     `json:"type" form:"type" validate:"required,oneof=license certification insurance other"`
	Name          string     `json:"name" form:"name" validate:"required"`
	Issuer        string     `json:"issuer" form:"issuer"`
	LicenseNumber string     `json:"license_number" form:"license_number"`
	DocumentURL   string     `json:"document_url" form:"document_url" validate:"omitempty,url"`
	IssueDate     *time.Time `json:"issue_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
}

type CreateBookingRequest struct {
	ProviderID     uint      `json:"provider_id" validate:"required"`
	ServiceID      uint      `json:"service_id" validate:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	Address        string    `json:"address" validate:"required"`
	Notes          string    `json:"notes"`
	EstimatedHours float64   `json:"estimated_hours" validate:"gte=0,lte=24"`
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=requested accepted rejected completed approved cancelled"`
	Note   string        `json:"note"`
}

type CreatePaymentRequest struct {
	BookingID uint          `json:"booking_id" validate:"required"`
	Method    PaymentMethod `json:"method" validate:"required,oneof=card cash bank_transfer"`
}

type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type VerifyRequest struct {
	IsVerified *bool `json:"is_verified" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
