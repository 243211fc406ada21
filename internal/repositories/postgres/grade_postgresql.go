package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

func (g *GradePostgreSQL) Create(ctx context.Context, grade *models.Grade) error {
	if err := g.db.WithContext(ctx).Create(grade).Error; err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

func (g *GradePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	if err := g.db.WithContext(ctx).First(&grade, id).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

func (g *GradePostgreSQL) Update(ctx context.Context, grade *models.Grade) error {
	if err := g.db.WithContext(ctx).Save(grade).Error; err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	return nil
}

func (g *GradePostgreSQL) Delete(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Delete(&models.Grade{}, id).Error
}

func (g *GradePostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := g.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Find(&grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by course: %w", err)
	}
	return grades, nil
}

func (g *GradePostgreSQL) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := g.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by student: %w", err)
	}
	return grades, nil
}
