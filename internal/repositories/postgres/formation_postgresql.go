package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type FormationPostgreSQL struct {
	db *gorm.DB
}

func NewFormationPostgreSQL(db *gorm.DB) repositories.FormationRepository {
	return &FormationPostgreSQL{db: db}
}

func (f *FormationPostgreSQL) Create(ctx context.Context, formation *models.Formation) error {
	if err := f.db.WithContext(ctx).Create(formation).Error; err != nil {
		return fmt.Errorf("failed to create formation: %w", err)
	}
	return nil
}

func (f *FormationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Formation, error) {
	var formation models.Formation
	if err := f.db.WithContext(ctx).First(&formation, id).Error; err != nil {
		return nil, err
	}
	return &formation, nil
}

func (f *FormationPostgreSQL) Update(ctx context.Context, formation *models.Formation) error {
	if err := f.db.WithContext(ctx).Save(formation).Error; err != nil {
		return fmt.Errorf("failed to update formation: %w", err)
	}
	return nil
}

func (f *FormationPostgreSQL) Delete(ctx context.Context, id uint) error {
	return f.db.WithContext(ctx).Delete(&models.Formation{}, id).Error
}

func (f *FormationPostgreSQL) List(ctx context.Context, filters repositories.FormationFilters) ([]*models.Formation, int64, error) {
	query := f.db.WithContext(ctx).Model(&models.Formation{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count formations: %w", err)
	}

	var formations []*models.Formation
	err := query.
		Limit(filters.Limit).
		Offset(filters.Offset).
		Order("created_at DESC").
		Find(&formations).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list formations: %w", err)
	}

	return formations, total, nil
}

func (f *FormationPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).Model(&models.Formation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (f *FormationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.FormationStatus) error {
	result := f.db.WithContext(ctx).Model(&models.Formation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustEnrolledCount applies the delta with a guarded UPDATE so the counter
// cannot go negative under concurrent withdraws.
func (f *FormationPostgreSQL) AdjustEnrolledCount(ctx context.Context, id uint, delta int) error {
	query := f.db.WithContext(ctx).Model(&models.Formation{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("enrolled_count >= ?", -delta)
	}

	result := query.UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust enrolled count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("formation %d not found or enrolled count would go negative", id)
	}
	return nil
}

func (f *FormationPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.FormationStats, error) {
	stats := &repositories.FormationStats{}

	type row struct {
		Total     int
		Active    int
		Completed int
		AvgProg   float64
	}
	var r row
	err := f.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COALESCE(AVG(progress_percentage), 0) AS avg_prog`).
		Where("formation_id = ?", id).
		Scan(&r).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get formation stats: %w", err)
	}

	stats.TotalEnrollments = r.Total
	stats.ActiveEnrollments = r.Active
	stats.CompletedEnrollments = r.Completed
	stats.AverageProgress = r.AvgProg

	err = f.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount - refunded_amount), 0)").
		Joins("JOIN enrollments ON enrollments.id = payments.enrollment_id").
		Where("enrollments.formation_id = ? AND payments.status = ?", id, models.PaymentCompleted).
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get formation revenue: %w", err)
	}

	return stats, nil
}
