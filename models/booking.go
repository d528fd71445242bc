package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusRequested BookingStatus = "requested"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusApproved  BookingStatus = "approved"
	StatusCancelled BookingStatus = "cancelled"
)

var AllBookingStatuses = []BookingStatus{
	StatusRequested,
	StatusAccepted,
	StatusRejected,
	StatusCompleted,
	StatusApproved,
	StatusCancelled,
}

type Booking struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	CustomerID     uint          `json:"customer_id" gorm:"index;not null"`
	ProviderID     uint          `json:"provider_id" gorm:"index;not null"`
	ServiceID      uint          `json:"service_id" gorm:"index;not null"`
	ScheduledAt    time.Time     `json:"scheduled_at" gorm:"index"`
	Address        string        `json:"address"`
	Notes          string        `json:"notes"`
	EstimatedHours float64       `json:"estimated_hours" gorm:"type:decimal(5,2);default:1"`
	TotalPrice     float64       `json:"total_price" gorm:"type:decimal(10,2)"`
	Status         BookingStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	StatusNote     string        `json:"status_note"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusRequested
	}
	return nil
}

// transitions lists, per source status, the target statuses and the roles
// allowed to move a booking there. Ownership of the booking is checked by
// the caller.
var transitions = map[BookingStatus]map[BookingStatus][]Role{
	StatusRequested: {
		StatusAccepted:  {RoleProvider, RoleAdmin},
		StatusRejected:  {RoleProvider, RoleAdmin},
		StatusCancelled: {RoleCustomer, RoleProvider, RoleAdmin, RoleSystem},
	},
	StatusAccepted: {
		StatusCompleted: {RoleProvider, RoleAdmin},
		StatusCancelled: {RoleCustomer, RoleProvider, RoleAdmin},
	},
	StatusCompleted: {
		StatusApproved: {RoleCustomer, RoleAdmin},
	},
	StatusRejected:  {},
	StatusApproved:  {},
	StatusCancelled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsFinished reports whether the work was done, which is what payments and
// reviews require.
func (s BookingStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusApproved
}

// CanTransition reports whether role may move a booking from one status to
// another.
func CanTransition(from, to BookingStatus, role Role) bool {
	for _, r := range transitions[from][to] {
		if r == role {
			return true
		}
	}
	return false
}

// HasTransition reports whether any role may move a booking from one status
// to another.
func HasTransition(from, to BookingStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// CheckTransition is CanTransition with a descriptive error.
func CheckTransition(from, to BookingStatus, role Role) error {
	if !to.Valid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if from == to {
		return fmt.Errorf("booking is already %s", from)
	}
	if from.IsTerminal() {
		return fmt.Errorf("no transitions allowed from %s", from)
	}
	if !HasTransition(from, to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	if !CanTransition(from, to, role) {
		return fmt.Errorf("%s cannot move a booking from %s to %s", role, from, to)
	}
	return nil
}

// NextStatuses returns the statuses role may move a booking to from s.
func NextStatuses(s BookingStatus, role Role) []BookingStatus {
	var out []BookingStatus
	for _, to := range AllBookingStatuses {
		if CanTransition(s, to, role) {
			out = append(out, to)
		}
	}
	return out
}
