package models

import (
	"time"
)

type CredentialStatus string

const (
	CredentialPending  CredentialStatus = "pending"
	CredentialVerified CredentialStatus = "verified"
)

// Credential is a licence, certification or insurance document submitted by
// a provider for admin verification.
type Credential struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	ProviderID    uint             `json:"provider_id" gorm:"index;not null"`
	Type          string           `json:"type"` // "license", "certification", "insurance"
	Name          string           `json:"name" gorm:"not null"`
	Issuer        string           `json:"issuer"`
	LicenseNumber string           `json:"license_number"`
	DocumentURL   string           `json:"document_url"`
	IssueDate     *time.Time       `json:"issue_date"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	Status        CredentialStatus `json:"status" gorm:"type:varchar(16);default:pending;index"`
	VerifiedAt    *time.Time       `json:"verified_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Expired reports whether the credential has an expiry date before now.
func (c Credential) Expired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}
