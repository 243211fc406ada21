package models

import (
	"time"
)

type RecordingStatus string
type CertificateStatus string
type TicketStatus string

const (
	RecordingProcessing RecordingStatus = "processing"
	RecordingReady      RecordingStatus = "ready"
	RecordingFailed     RecordingStatus = "failed"
)

const (
	CertificatePending CertificateStatus = "pending"
	CertificateIssued  CertificateStatus = "issued"
	CertificateRevoked CertificateStatus = "revoked"
)

const (
	TicketOpen    TicketStatus = "open"
	TicketPending TicketStatus = "pending"
	TicketClosed  TicketStatus = "closed"
)

// Resource is a file attached to a course (slides, handouts). Storage is an
// external service; only the opaque reference is kept here.
type Resource struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	FileURL  string `json:"file_url" gorm:"not null;size:500"`
	MimeType string `json:"mime_type" gorm:"size:100"`
	SizeKB   int64  `json:"size_kb"`

	UploadedBy string    `json:"uploaded_by" gorm:"not null;size:255"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Resource) TableName() string {
	return "resources"
}

// Recording is the stored capture of a live course session.
type Recording struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	FileURL  string `json:"file_url" gorm:"size:500"`

	Status          RecordingStatus `json:"status" gorm:"default:processing;size:20" validate:"omitempty,oneof=processing ready failed"`
	DurationSeconds int             `json:"duration_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Recording) TableName() string {
	return "recordings"
}

// Certificate is issued when an enrollment completes.
type Certificate struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	EnrollmentID uint   `json:"enrollment_id" gorm:"not null;uniqueIndex"`
	StudentID    string `json:"student_id" gorm:"not null;size:255;index"`
	SerialNumber string `json:"serial_number" gorm:"uniqueIndex;not null;size:64"`

	Status   CertificateStatus `json:"status" gorm:"default:pending;size:20" validate:"omitempty,oneof=pending issued revoked"`
	IssuedAt *time.Time        `json:"issued_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// SupportTicket gates the support.ticket.{id} channel: only its creator and
// admins may subscribe.
type SupportTicket struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CreatedBy string `json:"created_by" gorm:"not null;size:255;index"`
	Subject   string `json:"subject" gorm:"not null;size:255" validate:"required,min=1,max=255"`
	Body      string `json:"body" gorm:"type:text"`

	Status   TicketStatus `json:"status" gorm:"default:open;size:20;index" validate:"omitempty,oneof=open pending closed"`
	ClosedAt *time.Time   `json:"closed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}
