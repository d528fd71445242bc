package models

import (
	"time"
)

// Review is written by the customer of a finished booking. One per booking.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"booking_id" gorm:"uniqueIndex;not null"`
	CustomerID uint      `json:"customer_id" gorm:"index;not null"`
	ProviderID uint      `json:"provider_id" gorm:"index;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewWithAuthor is a review as shown on a provider page.
type ReviewWithAuthor struct {
	Review
	Customer PublicUser `json:"customer"`
}
