package models

import (
	"time"
)

// ProviderProfile extends a user with role=provider.
type ProviderProfile struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName      string    `json:"business_name"`
	Description       string    `json:"description"`
	Category          string    `json:"category" gorm:"index"`
	HourlyRate        float64   `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	YearsOfExperience int       `json:"years_of_experience"`
	ServiceArea       string    `json:"service_area"`
	Availability      string    `json:"availability"`
	Rating            float64   `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount       int       `json:"review_count" gorm:"default:0"`
	CompletedJobs     int       `json:"completed_jobs" gorm:"default:0"`
	IsVerified        bool      `json:"is_verified" gorm:"default:false;index"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ApplyRating folds the aggregate of a provider's reviews into the profile.
func (p *ProviderProfile) ApplyRating(sum, count int) {
	p.ReviewCount = count
	if count == 0 {
		p.Rating = 0
		return
	}
	p.Rating = roundTo(float64(sum)/float64(count), 2)
}

func roundTo(v float64, places int) float64 {
	pow := 1.0
	for i := 0; i < places; i++ {
		pow *= 10
	}
	return float64(int64(v*pow+0.5)) / pow
}
