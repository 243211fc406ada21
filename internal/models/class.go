package models

import (
	"time"

	"gorm.io/gorm"
)

// ClassModel is a cohort instance of a Formation, owned by exactly one
// teacher. Capacity invariant: 0 <= current_students <= max_students.
// Seat claims are done with a conditional UPDATE in the repository, never
// by read-modify-write, so the invariant holds under concurrent enrollment.
type ClassModel struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	FormationID uint    `json:"formation_id" gorm:"not null;index"`
	TeacherID   string  `json:"teacher_id" gorm:"not null;size:255;index"`
	Name        string  `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text"`

	MaxStudents     int `json:"max_students" gorm:"not null" validate:"required,min=1,max=500"`
	CurrentStudents int `json:"current_students" gorm:"default:0"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Formation Formation `json:"formation,omitempty" gorm:"foreignKey:FormationID"`
	Courses   []Course  `json:"courses,omitempty" gorm:"foreignKey:ClassID"`
	Teacher   User      `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (c *ClassModel) IsFull() bool {
	return c.CurrentStudents >= c.MaxStudents
}

func (c *ClassModel) AvailableSeats() int {
	seats := c.MaxStudents - c.CurrentStudents
	if seats < 0 {
		return 0
	}
	return seats
}
