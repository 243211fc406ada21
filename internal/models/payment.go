package models

import (
	"time"
)

type PaymentRecordStatus string
type PaymentMethod string

const (
	PaymentPending        PaymentRecordStatus = "pending"
	PaymentCompleted      PaymentRecordStatus = "completed"
	PaymentFailed         PaymentRecordStatus = "failed"
	PaymentRecordRefunded PaymentRecordStatus = "refunded"
)

const (
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
)

// Payment is an append-mostly record charged through an external gateway.
// Status transitions are driven only through PaymentService, which cascades
// payment state onto the enrollment.
type Payment struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	EnrollmentID uint   `json:"enrollment_id" gorm:"not null;index"`
	StudentID    string `json:"student_id" gorm:"not null;size:255;index"`

	Amount   float64       `json:"amount" gorm:"not null" validate:"required,gt=0"`
	Currency string        `json:"currency" gorm:"default:EUR;size:3"`
	Method   PaymentMethod `json:"method" gorm:"size:20" validate:"omitempty,oneof=card transfer cash"`

	// TransactionID is a UUID assigned when the payment is created.
	TransactionID string `json:"transaction_id" gorm:"uniqueIndex;not null;size:64"`

	Status         PaymentRecordStatus `json:"status" gorm:"default:pending;size:20;index" validate:"omitempty,oneof=pending completed failed refunded"`
	RefundedAmount float64             `json:"refunded_amount" gorm:"default:0"`

	PaidAt     *time.Time `json:"paid_at"`
	RefundedAt *time.Time `json:"refunded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Enrollment Enrollment `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentFailed || p.Status == PaymentRecordRefunded
}
