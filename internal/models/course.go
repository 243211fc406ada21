package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type CourseStatus string
type CourseType string

const (
	CourseScheduled CourseStatus = "scheduled"
	CourseLive      CourseStatus = "live"
	CourseCompleted CourseStatus = "completed"
	CourseCancelled CourseStatus = "cancelled"
)

const (
	CourseLecture  CourseType = "lecture"
	CourseExam     CourseType = "exam"
	CourseWorkshop CourseType = "workshop"
	CourseReview   CourseType = "review"
)

// EarlyJoinWindow is how long before the scheduled start students may enter
// the room. The exact window bounds (closed lower, open upper) are part of
// the client contract.
const EarlyJoinWindow = 10 * time.Minute

// InvalidTransitionError reports a lifecycle transition attempted from a
// state that does not permit it. Transitions never silently overwrite state.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Entity, e.From, e.To)
}

func newCourseTransitionError(from, to CourseStatus) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: "course", From: string(from), To: string(to)}
}

// Course is one scheduled session belonging to a class and taught by a
// single teacher. Status follows scheduled -> live -> completed, with
// cancellation allowed from scheduled and live; completed and cancelled are
// terminal.
type Course struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	ClassID   uint    `json:"class_id" gorm:"not null;index"`
	TeacherID string  `json:"teacher_id" gorm:"not null;size:255;index"`
	Title     string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject   *string `json:"subject" gorm:"size:100"`

	Type   CourseType   `json:"type" gorm:"default:lecture;size:20" validate:"omitempty,oneof=lecture exam workshop review"`
	Status CourseStatus `json:"status" gorm:"default:scheduled;size:20;index" validate:"omitempty,oneof=scheduled live completed cancelled"`

	ScheduledAt     time.Time `json:"scheduled_at" gorm:"not null;index" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null" validate:"required,min=5,max=480"`

	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	CancelReason *string    `json:"cancel_reason" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Class   ClassModel `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Teacher User       `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

func (Course) TableName() string {
	return "courses"
}

// ===== LIFECYCLE TRANSITIONS =====

// Start moves a scheduled course live. Teacher-triggered; no time-window
// restriction is enforced at this layer.
func (c *Course) Start(now time.Time) error {
	if c.Status != CourseScheduled {
		return newCourseTransitionError(c.Status, CourseLive)
	}
	c.Status = CourseLive
	c.StartedAt = &now
	return nil
}

// Complete ends the course. Allowed from any non-terminal state.
func (c *Course) Complete(now time.Time) error {
	if c.IsTerminal() {
		return newCourseTransitionError(c.Status, CourseCompleted)
	}
	c.Status = CourseCompleted
	c.EndedAt = &now
	return nil
}

// Cancel is allowed from scheduled or live and records an optional reason.
func (c *Course) Cancel(reason *string, now time.Time) error {
	if c.IsTerminal() {
		return newCourseTransitionError(c.Status, CourseCancelled)
	}
	c.Status = CourseCancelled
	c.CancelReason = reason
	c.EndedAt = &now
	return nil
}

// Reschedule resets a non-terminal course back to scheduled at a new time.
func (c *Course) Reschedule(newTime time.Time) error {
	if c.IsTerminal() {
		return newCourseTransitionError(c.Status, CourseScheduled)
	}
	c.Status = CourseScheduled
	c.ScheduledAt = newTime
	c.StartedAt = nil
	return nil
}

func (c *Course) IsTerminal() bool {
	return c.Status == CourseCompleted || c.Status == CourseCancelled
}

// ===== DERIVED PREDICATES =====

// EndsAt is the scheduled end of the session window.
func (c *Course) EndsAt() time.Time {
	return c.ScheduledAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

func (c *Course) IsUpcoming(now time.Time) bool {
	return c.Status == CourseScheduled && c.ScheduledAt.After(now)
}

func (c *Course) IsHappeningNow(now time.Time) bool {
	if c.Status != CourseLive {
		return false
	}
	return !now.Before(c.ScheduledAt) && !now.After(c.EndsAt())
}

// CanJoin reports whether a participant may enter the room: always while the
// course is live, otherwise inside [scheduled_at - EarlyJoinWindow,
// scheduled_at + duration). The >= lower bound and < upper bound are
// load-bearing for client compatibility.
func (c *Course) CanJoin(now time.Time) bool {
	if c.Status == CourseLive {
		return true
	}
	if c.IsTerminal() {
		return false
	}
	opensAt := c.ScheduledAt.Add(-EarlyJoinWindow)
	return !now.Before(opensAt) && now.Before(c.EndsAt())
}
