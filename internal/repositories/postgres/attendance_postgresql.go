package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

func (a *AttendancePostgreSQL) Create(ctx context.Context, attendance *models.Attendance) error {
	if err := a.db.WithContext(ctx).Create(attendance).Error; err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

func (a *AttendancePostgreSQL) GetByStudentAndCourse(ctx context.Context, studentID string, courseID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := a.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (a *AttendancePostgreSQL) Update(ctx context.Context, attendance *models.Attendance) error {
	if err := a.db.WithContext(ctx).Save(attendance).Error; err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}

func (a *AttendancePostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := a.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by course: %w", err)
	}
	return records, nil
}

func (a *AttendancePostgreSQL) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := a.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by student: %w", err)
	}
	return records, nil
}
