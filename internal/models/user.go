package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string
type UserStatus string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserDeleted   UserStatus = "deleted"
)

// User mirrors the identity record issued by the IdP. The service is not the
// owner of user data; it keeps a local projection for authorization checks.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,oneof=admin teacher student"`

	// Profile info
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`
	PhoneNumber *string `json:"phone_number" gorm:"size:20"`

	// Settings
	Language    string         `json:"language" gorm:"default:en;size:10"`
	Preferences datatypes.JSON `json:"preferences" gorm:"type:jsonb"`

	// Lifecycle status is a closed enum, not a nullable timestamp sentinel.
	Status      UserStatus `json:"status" gorm:"default:active;size:20;index" validate:"omitempty,oneof=active suspended deleted"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the exact role.
func (u *User) HasRole(role UserRole) bool {
	return u.Role == role
}

// IsActive is the first gate of every authorization predicate: suspended and
// deleted users are denied everywhere.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Avatar returns the avatar URL or an empty string.
func (u *User) Avatar() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}
