package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Formation").
		First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) GetByStudentAndFormation(ctx context.Context, studentID string, formationID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ? AND formation_id = ?", studentID, formationID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Enrollment{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.FormationID != nil {
		query = query.Where("formation_id = ?", *filters.FormationID)
	}
	if filters.ClassID != nil {
		query = query.Where("class_id = ?", *filters.ClassID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var enrollments []*models.Enrollment
	err := query.
		Limit(filters.Limit).
		Offset(filters.Offset).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, total, nil
}

// HasActiveByClass backs the course and class channel predicates.
func (e *EnrollmentPostgreSQL) HasActiveByClass(ctx context.Context, studentID string, classID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND class_id = ? AND status = ?", studentID, classID, models.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

func (e *EnrollmentPostgreSQL) HasActiveByFormation(ctx context.Context, studentID string, formationID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND formation_id = ? AND status = ?", studentID, formationID, models.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

func (e *EnrollmentPostgreSQL) UpdatePaymentStatus(ctx context.Context, id uint, status models.EnrollmentPaymentStatus) error {
	result := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
