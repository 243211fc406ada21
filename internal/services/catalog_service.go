package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

// CatalogService manages formations and their cohort classes. Only admins
// mutate the catalog; teachers are assigned, not self-appointed.
type CatalogService interface {
	CreateFormation(ctx context.Context, principal *models.User, req *CreateFormationRequest) (*models.Formation, error)
	PublishFormation(ctx context.Context, principal *models.User, formationID uint) (*models.Formation, error)
	GetFormation(ctx context.Context, formationID uint) (*models.Formation, error)
	ListFormations(ctx context.Context, filters repositories.FormationFilters) ([]*models.Formation, int64, error)
	GetFormationStats(ctx context.Context, principal *models.User, formationID uint) (*repositories.FormationStats, error)

	CreateClass(ctx context.Context, principal *models.User, req *CreateClassRequest) (*models.ClassModel, error)
	GetClass(ctx context.Context, classID uint) (*models.ClassModel, error)
	ListClassesByFormation(ctx context.Context, formationID uint) ([]*models.ClassModel, error)
	ListClassesByTeacher(ctx context.Context, teacherID string) ([]*models.ClassModel, error)
	GetClassStats(ctx context.Context, principal *models.User, classID uint) (*repositories.ClassStats, error)
}

type CreateFormationRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	Category        *string `json:"category" validate:"omitempty,max=100"`
	Price           float64 `json:"price" validate:"min=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"min=0,max=100"`
}

type CreateClassRequest struct {
	FormationID uint       `json:"formation_id" validate:"required,min=1"`
	TeacherID   string     `json:"teacher_id" validate:"required"`
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description *string    `json:"description"`
	MaxStudents int        `json:"max_students" validate:"required,min=1,max=500"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type catalogService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *catalogService) CreateFormation(ctx context.Context, principal *models.User, req *CreateFormationRequest) (*models.Formation, error) {
	if !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, 0, "formation", "create", "requires admin role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	formation := &models.Formation{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Status:          models.FormationDraft,
	}

	if err := s.repo.Formation().Create(ctx, formation); err != nil {
		return nil, fmt.Errorf("failed to create formation: %w", err)
	}

	s.logger.Info("Formation created", "formation_id", formation.ID, "title", formation.Title)
	return formation, nil
}

func (s *catalogService) PublishFormation(ctx context.Context, principal *models.User, formationID uint) (*models.Formation, error) {
	if !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, formationID, "formation", "publish", "requires admin role")
	}

	formation, err := s.repo.Formation().GetByID(ctx, formationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormationNotFound
		}
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}

	if formation.IsPublished() {
		return formation, nil
	}

	if err := s.repo.Formation().UpdateStatus(ctx, formationID, models.FormationPublished); err != nil {
		return nil, fmt.Errorf("failed to publish formation: %w", err)
	}
	formation.Status = models.FormationPublished

	s.logger.Info("Formation published", "formation_id", formationID)
	return formation, nil
}

func (s *catalogService) GetFormation(ctx context.Context, formationID uint) (*models.Formation, error) {
	formation, err := s.repo.Formation().GetByID(ctx, formationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormationNotFound
		}
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	return formation, nil
}

func (s *catalogService) ListFormations(ctx context.Context, filters repositories.FormationFilters) ([]*models.Formation, int64, error) {
	formations, total, err := s.repo.Formation().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list formations: %w", err)
	}
	return formations, total, nil
}

func (s *catalogService) GetFormationStats(ctx context.Context, principal *models.User, formationID uint) (*repositories.FormationStats, error) {
	if principal.IsStudent() {
		return nil, NewPermissionError(principal.ID, formationID, "formation", "stats", "analytics are not available to students")
	}

	stats, err := s.repo.Formation().GetStats(ctx, formationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormationNotFound
		}
		return nil, fmt.Errorf("failed to get formation stats: %w", err)
	}
	return stats, nil
}

func (s *catalogService) CreateClass(ctx context.Context, principal *models.User, req *CreateClassRequest) (*models.ClassModel, error) {
	if !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, req.FormationID, "class", "create", "requires admin role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Formation().ExistsByID(ctx, req.FormationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check formation: %w", err)
	}
	if !exists {
		return nil, ErrFormationNotFound
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if !teacher.IsTeacher() {
		return nil, NewValidationError("teacher_id", "assigned user is not a teacher", req.TeacherID)
	}

	class := &models.ClassModel{
		FormationID: req.FormationID,
		TeacherID:   req.TeacherID,
		Name:        req.Name,
		Description: req.Description,
		MaxStudents: req.MaxStudents,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := s.repo.Class().Create(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.logger.Info("Class created", "class_id", class.ID, "formation_id", req.FormationID, "teacher_id", req.TeacherID)
	return class, nil
}

func (s *catalogService) GetClass(ctx context.Context, classID uint) (*models.ClassModel, error) {
	class, err := s.repo.Class().GetByID(ctx, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

func (s *catalogService) ListClassesByFormation(ctx context.Context, formationID uint) ([]*models.ClassModel, error) {
	classes, err := s.repo.Class().ListByFormation(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *catalogService) ListClassesByTeacher(ctx context.Context, teacherID string) ([]*models.ClassModel, error) {
	classes, err := s.repo.Class().ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *catalogService) GetClassStats(ctx context.Context, principal *models.User, classID uint) (*repositories.ClassStats, error) {
	if principal.IsStudent() {
		return nil, NewPermissionError(principal.ID, classID, "class", "stats", "analytics are not available to students")
	}

	class, err := s.repo.Class().GetByID(ctx, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	if principal.IsTeacher() && class.TeacherID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, classID, "class", "stats", "not the class teacher")
	}

	stats, err := s.repo.Class().GetStats(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class stats: %w", err)
	}
	return stats, nil
}
