package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationPriority int

const (
	NotificationCourseStarted     NotificationType = "course_started"
	NotificationCourseCancelled   NotificationType = "course_cancelled"
	NotificationCourseRescheduled NotificationType = "course_rescheduled"
	NotificationEnrollmentActive  NotificationType = "enrollment_active"
	NotificationPaymentReceived   NotificationType = "payment_received"
	NotificationPaymentRefunded   NotificationType = "payment_refunded"
	NotificationCertificateIssued NotificationType = "certificate_issued"
	NotificationSystemMaintenance NotificationType = "system_maintenance"

	PriorityLow      NotificationPriority = 1
	PriorityNormal   NotificationPriority = 2
	PriorityHigh     NotificationPriority = 3
	PriorityCritical NotificationPriority = 4
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	Type    NotificationType `json:"type" gorm:"not null;size:50;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	// Recipients: a specific user, or a whole role for broadcasts.
	RecipientID   *string   `json:"recipient_id" gorm:"size:255;index"`
	RecipientRole *UserRole `json:"recipient_role" gorm:"size:20"`

	// Related entities
	CourseID     *uint `json:"course_id" gorm:"index"`
	EnrollmentID *uint `json:"enrollment_id" gorm:"index"`

	// Delivery settings
	Channels datatypes.JSON       `json:"channels" gorm:"type:jsonb"` // ["push", "in_app"]
	Priority NotificationPriority `json:"priority" gorm:"default:2"`

	SentAt *time.Time `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// MarkAsRead stamps read_at on the first call only; later calls are no-ops.
// Returns true when this call performed the stamp.
func (n *Notification) MarkAsRead(now time.Time) bool {
	if n.ReadAt != nil {
		return false
	}
	n.ReadAt = &now
	return true
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// Message is a direct user-to-user message surfaced on the chat.{userId}
// channel.
type Message struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SenderID    string `json:"sender_id" gorm:"not null;size:255;index"`
	RecipientID string `json:"recipient_id" gorm:"not null;size:255;index"`
	Body        string `json:"body" gorm:"type:text;not null" validate:"required,min=1,max=5000"`

	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	Sender    User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

func (Message) TableName() string {
	return "messages"
}

// MarkAsRead follows the same first-call-wins rule as notifications.
func (m *Message) MarkAsRead(now time.Time) bool {
	if m.ReadAt != nil {
		return false
	}
	m.ReadAt = &now
	return true
}
