package models

import (
	"time"
)

// Grade is a scored assessment tied to student, course and subject. Letter
// and mention are pure functions of the stored numbers, not persisted state.
type Grade struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	StudentID string  `json:"student_id" gorm:"not null;size:255;index"`
	CourseID  uint    `json:"course_id" gorm:"not null;index"`
	Subject   string  `json:"subject" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Comment   *string `json:"comment" gorm:"type:text"`

	Grade    float64 `json:"grade" gorm:"not null" validate:"min=0"`
	MaxGrade float64 `json:"max_grade" gorm:"not null" validate:"required,gt=0"`
	Weight   float64 `json:"weight" gorm:"default:100" validate:"min=0,max=100"`

	GradedBy  string    `json:"graded_by" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Grade) TableName() string {
	return "grades"
}

// Percentage normalizes the score to [0,100].
func (g *Grade) Percentage() float64 {
	if g.MaxGrade <= 0 {
		return 0
	}
	return g.Grade / g.MaxGrade * 100
}

// Letter maps the percentage onto the usual A-F scale.
func (g *Grade) Letter() string {
	p := g.Percentage()
	switch {
	case p >= 90:
		return "A"
	case p >= 80:
		return "B"
	case p >= 70:
		return "C"
	case p >= 60:
		return "D"
	default:
		return "F"
	}
}

// Mention is the honors label derived from the percentage.
func (g *Grade) Mention() string {
	p := g.Percentage()
	switch {
	case p >= 80:
		return "Excellent"
	case p >= 70:
		return "Very Good"
	case p >= 60:
		return "Good"
	case p >= 50:
		return "Satisfactory"
	default:
		return "Insufficient"
	}
}

// IsPassing uses the conventional 50% cut-off.
func (g *Grade) IsPassing() bool {
	return g.Percentage() >= 50
}
