package repositories

import (
	"context"

	"github.com/SAP-F-2025/classroom-service/internal/models"
)

// FormationRepository manages course offerings.
type FormationRepository interface {
	Create(ctx context.Context, formation *models.Formation) error
	GetByID(ctx context.Context, id uint) (*models.Formation, error)
	Update(ctx context.Context, formation *models.Formation) error
	Delete(ctx context.Context, id uint) error // Soft delete
	List(ctx context.Context, filters FormationFilters) ([]*models.Formation, int64, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status models.FormationStatus) error

	// AdjustEnrolledCount applies delta atomically; the count never drops
	// below zero.
	AdjustEnrolledCount(ctx context.Context, id uint, delta int) error

	GetStats(ctx context.Context, id uint) (*FormationStats, error)
}

// ClassRepository manages cohort classes and their capacity.
type ClassRepository interface {
	Create(ctx context.Context, class *models.ClassModel) error
	GetByID(ctx context.Context, id uint) (*models.ClassModel, error)
	Update(ctx context.Context, class *models.ClassModel) error
	Delete(ctx context.Context, id uint) error
	ListByFormation(ctx context.Context, formationID uint) ([]*models.ClassModel, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.ClassModel, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)

	// ClaimSeat increments current_students only while below max_students and
	// reports whether a seat was taken. This is the single compare-and-
	// increment that keeps the capacity invariant under concurrent enrolls.
	ClaimSeat(ctx context.Context, id uint) (bool, error)

	// ReleaseSeat decrements current_students, never below zero.
	ReleaseSeat(ctx context.Context, id uint) error

	GetStats(ctx context.Context, id uint) (*ClassStats, error)
}
