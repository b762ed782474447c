package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// Booking is the service booking a payout settles. This service reads
// bookings but never mutates them.
type Booking struct {
	ID            uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID                   `gorm:"column:customer_id;type:uuid;not null;index"`
	WorkerID      uuid.UUID                   `gorm:"column:worker_id;type:uuid;not null;index"`
	ServiceName   string                      `gorm:"column:service_name;not null"`
	AmountPaise   int64                       `gorm:"column:amount_paise;not null"`
	Currency      string                      `gorm:"column:currency;not null;default:'INR'"`
	Status        enums.BookingStatus         `gorm:"column:status;type:booking_status_enum;not null;default:'pending'"`
	PaymentStatus enums.CustomerPaymentStatus `gorm:"column:payment_status;type:customer_payment_status_enum;not null;default:'pending'"`
	CompletedAt   *time.Time                  `gorm:"column:completed_at"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}
