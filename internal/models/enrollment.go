package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string
type EnrollmentPaymentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

const (
	PaymentUnpaid   EnrollmentPaymentStatus = "unpaid"
	PaymentPaid     EnrollmentPaymentStatus = "paid"
	PaymentRefunded EnrollmentPaymentStatus = "refunded"
)

// Enrollment links a student to a formation and optionally to a cohort class.
// Only active enrollments grant channel access.
type Enrollment struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	StudentID   string `json:"student_id" gorm:"not null;size:255;index:idx_enrollments_student_formation"`
	FormationID uint   `json:"formation_id" gorm:"not null;index:idx_enrollments_student_formation"`
	ClassID     *uint  `json:"class_id" gorm:"index"`

	Status        EnrollmentStatus        `json:"status" gorm:"default:pending;size:20;index" validate:"omitempty,oneof=pending active completed suspended"`
	PaymentStatus EnrollmentPaymentStatus `json:"payment_status" gorm:"default:unpaid;size:20" validate:"omitempty,oneof=unpaid paid refunded"`

	// ProgressPercentage is clamped to [0,100]. Reaching 100 completes the
	// enrollment and stamps CompletionDate exactly once.
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0" validate:"min=0,max=100"`
	CompletionDate     *time.Time `json:"completion_date"`

	EnrolledAt time.Time      `json:"enrolled_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student   User        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Formation Formation   `json:"formation,omitempty" gorm:"foreignKey:FormationID"`
	Class     *ClassModel `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive
}

// UpdateProgress clamps the new value into [0,100]. The first time progress
// reaches 100 the enrollment transitions to completed and the completion date
// is stamped; later calls leave the stamp untouched.
func (e *Enrollment) UpdateProgress(progress float64, now time.Time) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	e.ProgressPercentage = progress

	if progress == 100 && e.CompletionDate == nil {
		e.Status = EnrollmentCompleted
		e.CompletionDate = &now
	}
}
