package models

import (
	"time"
)

// Service is a catalog entry such as "Plumbing" or "Lawn Care".
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index"`
	Icon        string    `json:"icon"`
	BasePrice   float64   `json:"base_price" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
