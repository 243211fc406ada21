package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/channels"
	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

// CourseService manages scheduled sessions and their lifecycle. Transition
// rules live on the model; this layer adds permissions, persistence and
// event publication.
type CourseService interface {
	Create(ctx context.Context, principal *models.User, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, courseID uint) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error)

	Start(ctx context.Context, principal *models.User, courseID uint) (*models.Course, error)
	Complete(ctx context.Context, principal *models.User, courseID uint) (*models.Course, error)
	Cancel(ctx context.Context, principal *models.User, courseID uint, reason *string) (*models.Course, error)
	Reschedule(ctx context.Context, principal *models.User, courseID uint, newTime time.Time) (*models.Course, error)

	// Join validates the join window and records the student's check-in.
	Join(ctx context.Context, principal *models.User, courseID uint) (*models.Attendance, error)
	CheckOut(ctx context.Context, principal *models.User, courseID uint) (*models.Attendance, error)
}

type CreateCourseRequest struct {
	ClassID         uint      `json:"class_id" validate:"required,min=1"`
	Title           string    `json:"title" validate:"required,min=1,max=200"`
	Subject         *string   `json:"subject" validate:"omitempty,max=100"`
	Type            string    `json:"type" validate:"omitempty,oneof=lecture exam workshop review"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=5,max=480"`
}

type courseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewCourseService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, principal *models.User, req *CreateCourseRequest) (*models.Course, error) {
	s.logger.Info("Creating course", "class_id", req.ClassID, "teacher_id", principal.ID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !principal.IsTeacher() && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, req.ClassID, "course", "create", "requires teacher role")
	}

	class, err := s.repo.Class().GetByID(ctx, req.ClassID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	// A teacher schedules sessions only for their own cohort.
	if principal.IsTeacher() && class.TeacherID != principal.ID {
		return nil, NewPermissionError(principal.ID, req.ClassID, "class", "schedule_course", "not the class teacher")
	}

	courseType := models.CourseType(req.Type)
	if req.Type == "" {
		courseType = models.CourseLecture
	}

	course := &models.Course{
		ClassID:         req.ClassID,
		TeacherID:       class.TeacherID,
		Title:           req.Title,
		Subject:         req.Subject,
		Type:            courseType,
		Status:          models.CourseScheduled,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, courseID uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}

// ===== LIFECYCLE =====

func (s *courseService) Start(ctx context.Context, principal *models.User, courseID uint) (*models.Course, error) {
	return s.transition(ctx, principal, courseID, "start", func(course *models.Course, now time.Time) error {
		return course.Start(now)
	}, events.EventCourseStarted)
}

func (s *courseService) Complete(ctx context.Context, principal *models.User, courseID uint) (*models.Course, error) {
	return s.transition(ctx, principal, courseID, "complete", func(course *models.Course, now time.Time) error {
		return course.Complete(now)
	}, events.EventCourseCompleted)
}

func (s *courseService) Cancel(ctx context.Context, principal *models.User, courseID uint, reason *string) (*models.Course, error) {
	return s.transition(ctx, principal, courseID, "cancel", func(course *models.Course, now time.Time) error {
		return course.Cancel(reason, now)
	}, events.EventCourseCancelled)
}

func (s *courseService) Reschedule(ctx context.Context, principal *models.User, courseID uint, newTime time.Time) (*models.Course, error) {
	return s.transition(ctx, principal, courseID, "reschedule", func(course *models.Course, now time.Time) error {
		return course.Reschedule(newTime)
	}, events.EventCourseRescheduled)
}

// transition loads the course, checks that the principal controls it,
// applies the state-machine mutation and publishes the lifecycle event.
// Rejected transitions surface as InvalidTransitionError, never as silent
// overwrites.
func (s *courseService) transition(
	ctx context.Context,
	principal *models.User,
	courseID uint,
	action string,
	mutate func(*models.Course, time.Time) error,
	eventType events.EventType,
) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, courseID, "course", action, "not the course teacher")
	}

	if err := mutate(course, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to persist course %s: %w", action, err)
	}

	s.publishLifecycleEvent(ctx, eventType, course)

	s.logger.Info("Course transition applied",
		"course_id", courseID,
		"action", action,
		"status", course.Status)

	return course, nil
}

// ===== JOIN / ATTENDANCE =====

// Join admits a participant into the room when the join window allows it and
// records the check-in. The window is evaluated against wall clock on every
// call.
func (s *courseService) Join(ctx context.Context, principal *models.User, courseID uint) (*models.Attendance, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	now := s.now()
	if !course.CanJoin(now) {
		return nil, ErrCourseNotJoinable
	}

	// The teacher joins their own room without an attendance record.
	if principal.ID == course.TeacherID {
		return nil, nil
	}

	if !principal.IsStudent() {
		return nil, NewPermissionError(principal.ID, courseID, "course", "join", "not a participant")
	}
	enrolled, err := s.repo.Enrollment().HasActiveByClass(ctx, principal.ID, course.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, NewPermissionError(principal.ID, courseID, "course", "join", "no active enrollment in class")
	}

	attendance, err := s.repo.Attendance().GetByStudentAndCourse(ctx, principal.ID, courseID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get attendance: %w", err)
		}
		attendance = &models.Attendance{
			StudentID: principal.ID,
			CourseID:  courseID,
			Status:    models.AttendanceAbsent,
		}
		attendance.CheckIn(course, now)
		if err := s.repo.Attendance().Create(ctx, attendance); err != nil {
			return nil, fmt.Errorf("failed to create attendance: %w", err)
		}
		return attendance, nil
	}

	attendance.CheckIn(course, now)
	if err := s.repo.Attendance().Update(ctx, attendance); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance, nil
}

func (s *courseService) CheckOut(ctx context.Context, principal *models.User, courseID uint) (*models.Attendance, error) {
	attendance, err := s.repo.Attendance().GetByStudentAndCourse(ctx, principal.ID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	attendance.CheckOut(s.now())
	if err := s.repo.Attendance().Update(ctx, attendance); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance, nil
}

func (s *courseService) publishLifecycleEvent(ctx context.Context, eventType events.EventType, course *models.Course) {
	event := events.NewDomainEvent(eventType, channels.CourseChannel(course.ID), &events.CourseLifecycleEvent{
		CourseID:    course.ID,
		ClassID:     course.ClassID,
		TeacherID:   course.TeacherID,
		Title:       course.Title,
		Status:      string(course.Status),
		ScheduledAt: course.ScheduledAt,
		Reason:      course.CancelReason,
		OccurredAt:  s.now(),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish course event", "course_id", course.ID)
	}
}
