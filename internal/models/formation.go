package models

import (
	"time"

	"gorm.io/gorm"
)

type FormationStatus string

const (
	FormationDraft     FormationStatus = "draft"
	FormationPublished FormationStatus = "published"
)

// Formation is a course offering owned by the platform. Cohorts of a
// formation are ClassModel rows; students attach through Enrollment.
type Formation struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Category    *string `json:"category" gorm:"size:100"`

	Status FormationStatus `json:"status" gorm:"default:draft;size:20;index" validate:"omitempty,oneof=draft published"`

	// Pricing
	Price           float64 `json:"price" gorm:"not null" validate:"min=0"`
	DiscountPercent float64 `json:"discount_percent" gorm:"default:0" validate:"min=0,max=100"`

	// EnrolledCount reflects the count of active enrollments. It is bumped
	// inside the enrollment transaction and must never go negative.
	EnrolledCount int `json:"enrolled_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Classes []ClassModel `json:"classes,omitempty" gorm:"foreignKey:FormationID"`
}

func (Formation) TableName() string {
	return "formations"
}

func (f *Formation) IsPublished() bool {
	return f.Status == FormationPublished
}

// EffectivePrice applies the discount percentage to the list price.
func (f *Formation) EffectivePrice() float64 {
	if f.DiscountPercent <= 0 {
		return f.Price
	}
	return f.Price * (1 - f.DiscountPercent/100)
}
