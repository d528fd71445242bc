package models

import "time"

type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	BookingID      uint          `json:"booking_id" gorm:"uniqueIndex;not null"`
	CustomerID     uint          `json:"customer_id" gorm:"index;not null"`
	ProviderID     uint          `json:"provider_id" gorm:"index;not null"`
	Amount         float64       `json:"amount" gorm:"type:decimal(10,2)"`
	Method         PaymentMethod `json:"method" gorm:"size:20"`
	Status         PaymentStatus `json:"status" gorm:"size:20;default:completed"`
	TransactionRef string        `json:"transaction_ref" gorm:"size:64"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodCash, MethodBankTransfer:
		return true
	}
	return false
}
