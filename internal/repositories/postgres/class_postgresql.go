package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type ClassPostgreSQL struct {
	db *gorm.DB
}

func NewClassPostgreSQL(db *gorm.DB) repositories.ClassRepository {
	return &ClassPostgreSQL{db: db}
}

func (c *ClassPostgreSQL) Create(ctx context.Context, class *models.ClassModel) error {
	if err := c.db.WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (c *ClassPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ClassModel, error) {
	var class models.ClassModel
	err := c.db.WithContext(ctx).
		Preload("Formation").
		First(&class, id).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *ClassPostgreSQL) Update(ctx context.Context, class *models.ClassModel) error {
	if err := c.db.WithContext(ctx).Save(class).Error; err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return nil
}

func (c *ClassPostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.ClassModel{}, id).Error
}

func (c *ClassPostgreSQL) ListByFormation(ctx context.Context, formationID uint) ([]*models.ClassModel, error) {
	var classes []*models.ClassModel
	err := c.db.WithContext(ctx).
		Where("formation_id = ?", formationID).
		Order("start_date ASC").
		Find(&classes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list classes by formation: %w", err)
	}
	return classes, nil
}

func (c *ClassPostgreSQL) ListByTeacher(ctx context.Context, teacherID string) ([]*models.ClassModel, error) {
	var classes []*models.ClassModel
	err := c.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("start_date ASC").
		Find(&classes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list classes by teacher: %w", err)
	}
	return classes, nil
}

func (c *ClassPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.ClassModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ClaimSeat performs the atomic compare-and-increment that preserves
// current_students <= max_students. Two enrollments racing for the last seat
// resolve in the database: exactly one UPDATE matches.
func (c *ClassPostgreSQL) ClaimSeat(ctx context.Context, id uint) (bool, error) {
	result := c.db.WithContext(ctx).Model(&models.ClassModel{}).
		Where("id = ? AND current_students < max_students", id).
		UpdateColumn("current_students", gorm.Expr("current_students + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim seat: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ReleaseSeat decrements with a floor of zero.
func (c *ClassPostgreSQL) ReleaseSeat(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Model(&models.ClassModel{}).
		Where("id = ? AND current_students > 0", id).
		UpdateColumn("current_students", gorm.Expr("current_students - 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to release seat: %w", result.Error)
	}
	return nil
}

func (c *ClassPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.ClassStats, error) {
	stats := &repositories.ClassStats{}

	type courseRow struct {
		Total     int
		Completed int
		Cancelled int
	}
	var cr courseRow
	err := c.db.WithContext(ctx).Model(&models.Course{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled`).
		Where("class_id = ?", id).
		Scan(&cr).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get class course stats: %w", err)
	}
	stats.TotalCourses = cr.Total
	stats.CompletedCourses = cr.Completed
	stats.CancelledCourses = cr.Cancelled

	var enrolled int64
	err = c.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("class_id = ? AND status = ?", id, models.EnrollmentActive).
		Count(&enrolled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count class enrollments: %w", err)
	}
	stats.EnrolledStudents = int(enrolled)

	err = c.db.WithContext(ctx).Model(&models.Attendance{}).
		Select(`COALESCE(AVG(CASE WHEN attendances.status IN ('present', 'late') THEN 1.0 ELSE 0.0 END), 0)`).
		Joins("JOIN courses ON courses.id = attendances.course_id").
		Where("courses.class_id = ?", id).
		Scan(&stats.AttendanceRate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute attendance rate: %w", err)
	}

	return stats, nil
}
