package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Class").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Course{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ClassID != nil {
		query = query.Where("class_id = ?", *filters.ClassID)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.DateFrom != nil {
		query = query.Where("scheduled_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("scheduled_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "scheduled_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "desc" {
		sortOrder = "asc"
	}

	var courses []*models.Course
	err := query.
		Limit(filters.Limit).
		Offset(filters.Offset).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) ListByClass(ctx context.Context, classID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("scheduled_at ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by class: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) IsClassTeacher(ctx context.Context, teacherID string, classID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Course{}).
		Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) GetUpcoming(ctx context.Context, teacherID string, from time.Time, limit int) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("teacher_id = ? AND status = ? AND scheduled_at > ?", teacherID, models.CourseScheduled, from).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming courses: %w", err)
	}
	return courses, nil
}
