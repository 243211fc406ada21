package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCourseStarted     EventType = "course.started"
	EventCourseCompleted   EventType = "course.completed"
	EventCourseCancelled   EventType = "course.cancelled"
	EventCourseRescheduled EventType = "course.rescheduled"

	EventEnrollmentCreated   EventType = "enrollment.created"
	EventEnrollmentActivated EventType = "enrollment.activated"
	EventEnrollmentCompleted EventType = "enrollment.completed"

	EventPaymentCompleted EventType = "payment.completed"
	EventPaymentRefunded  EventType = "payment.refunded"

	EventNotificationCreated EventType = "notification.created"
)

// DomainEvent is the envelope published to the broker. Consumers fan the
// payload out to the matching broadcast channels.
type DomainEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`

	// Channel is the broadcast channel the payload targets, when the event
	// maps onto one (e.g. course.42 for a lifecycle event).
	Channel string `json:"channel,omitempty"`
}

// NewDomainEvent stamps a fresh envelope for the given type and payload.
func NewDomainEvent(eventType EventType, channel string, data interface{}) *DomainEvent {
	return &DomainEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "classroom-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
		Channel:   channel,
	}
}

// ===== EVENT PAYLOADS =====

type CourseLifecycleEvent struct {
	CourseID    uint       `json:"course_id"`
	ClassID     uint       `json:"class_id"`
	TeacherID   string     `json:"teacher_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Reason      *string    `json:"reason,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	NewTime     *time.Time `json:"new_time,omitempty"`
}

type EnrollmentEvent struct {
	EnrollmentID uint   `json:"enrollment_id"`
	StudentID    string `json:"student_id"`
	FormationID  uint   `json:"formation_id"`
	ClassID      *uint  `json:"class_id,omitempty"`
	Status       string `json:"status"`
}

type PaymentEvent struct {
	PaymentID     uint    `json:"payment_id"`
	EnrollmentID  uint    `json:"enrollment_id"`
	StudentID     string  `json:"student_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

type NotificationEvent struct {
	NotificationID uint   `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Priority       int    `json:"priority"`
}
