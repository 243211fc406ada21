package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance holds one record per (student, course). Duration is derived
// from the check-in/check-out pair, never stored.
type Attendance struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_attendance_student_course"`
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_attendance_student_course"`

	Status AttendanceStatus `json:"status" gorm:"default:absent;size:20" validate:"omitempty,oneof=present absent late excused"`

	CheckInAt  *time.Time `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// CheckIn stamps the first check-in and marks the student present or late
// depending on the course start. Repeated calls keep the original stamp.
func (a *Attendance) CheckIn(course *Course, now time.Time) {
	if a.CheckInAt != nil {
		return
	}
	a.CheckInAt = &now
	if now.After(course.ScheduledAt.Add(5 * time.Minute)) {
		a.Status = AttendanceLate
	} else {
		a.Status = AttendancePresent
	}
}

// CheckOut stamps the check-out time once, after a check-in exists.
func (a *Attendance) CheckOut(now time.Time) {
	if a.CheckInAt == nil || a.CheckOutAt != nil {
		return
	}
	a.CheckOutAt = &now
}

// Duration is how long the student stayed; zero until both stamps exist.
func (a *Attendance) Duration() time.Duration {
	if a.CheckInAt == nil || a.CheckOutAt == nil {
		return 0
	}
	return a.CheckOutAt.Sub(*a.CheckInAt)
}
