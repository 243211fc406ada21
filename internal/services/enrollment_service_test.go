package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func seedFormation(repo *memRepository, id uint, status models.FormationStatus) *models.Formation {
	formation := &models.Formation{ID: id, Title: "Go Fundamentals", Status: status, Price: 200}
	repo.formations.formations[id] = formation
	return formation
}

func seedClass(repo *memRepository, id, formationID uint, teacherID string, maxStudents, current int) *models.ClassModel {
	class := &models.ClassModel{
		ID:              id,
		FormationID:     formationID,
		TeacherID:       teacherID,
		Name:            "Cohort A",
		MaxStudents:     maxStudents,
		CurrentStudents: current,
	}
	repo.classes.classes[id] = class
	return class
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *memRepository, publisher *events.MockEventPublisher) EnrollmentService {
		return NewEnrollmentService(repo, publisher, newTestLogger(), newTestValidator())
	}

	t.Run("Happy_Path_Claims_Seat_And_Publishes", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		seedFormation(repo, 1, models.FormationPublished)
		seedClass(repo, 10, 1, "teacher-1", 2, 0)
		service := newService(repo, publisher)

		classID := uint(10)
		enrollment, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1, ClassID: &classID})

		assert.NoError(t, err)
		assert.NotNil(t, enrollment)
		assert.Equal(t, models.EnrollmentPending, enrollment.Status)
		assert.Equal(t, models.PaymentUnpaid, enrollment.PaymentStatus)
		assert.Equal(t, 1, repo.classes.classes[10].CurrentStudents)
		assert.Equal(t, 1, repo.formations.formations[1].EnrolledCount)
		assert.Equal(t, 1, repo.commits)
		assert.Equal(t, 0, repo.rollbacks)

		published := publisher.PublishedEvents()
		if assert.Len(t, published, 1) {
			assert.Equal(t, events.EventEnrollmentCreated, published[0].Type)
		}
	})

	t.Run("Without_Class_Skips_Seat_Claim", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		service := newService(repo, newTestPublisher())

		enrollment, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1})

		assert.NoError(t, err)
		assert.Nil(t, enrollment.ClassID)
		assert.Equal(t, 1, repo.formations.formations[1].EnrolledCount)
	})

	t.Run("Full_Class_Rejected_And_Rolled_Back", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		seedClass(repo, 10, 1, "teacher-1", 1, 1)
		service := newService(repo, newTestPublisher())

		classID := uint(10)
		_, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1, ClassID: &classID})

		assert.ErrorIs(t, err, ErrClassFull)
		assert.Equal(t, 0, repo.commits)
		assert.Equal(t, 1, repo.rollbacks)
		assert.Empty(t, repo.enrollments.enrollments)
	})

	t.Run("Duplicate_Enrollment_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		service := newService(repo, newTestPublisher())

		_, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1})
		assert.NoError(t, err)

		_, err = service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1})
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("Unpublished_Formation_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationDraft)
		service := newService(repo, newTestPublisher())

		_, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1})
		assert.ErrorIs(t, err, ErrFormationNotPublished)
	})

	t.Run("Missing_Formation_Rejected", func(t *testing.T) {
		service := newService(newMemRepository(), newTestPublisher())

		_, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 99})
		assert.ErrorIs(t, err, ErrFormationNotFound)
	})

	t.Run("Non_Student_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		service := newService(repo, newTestPublisher())

		_, err := service.Enroll(ctx, testTeacher("teacher-1"), &EnrollRequest{FormationID: 1})
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Class_From_Other_Formation_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		seedClass(repo, 10, 2, "teacher-1", 5, 0)
		service := newService(repo, newTestPublisher())

		classID := uint(10)
		_, err := service.Enroll(ctx, testStudent("student-1"), &EnrollRequest{FormationID: 1, ClassID: &classID})
		assert.True(t, IsValidation(err))
	})
}

func TestEnrollmentService_Withdraw(t *testing.T) {
	ctx := context.Background()

	seedEnrollment := func(repo *memRepository, studentID string, status models.EnrollmentStatus, classID *uint) *models.Enrollment {
		enrollment := &models.Enrollment{StudentID: studentID, FormationID: 1, ClassID: classID, Status: status}
		_ = repo.enrollments.Create(ctx, enrollment)
		return enrollment
	}

	t.Run("Releases_Seat_And_Counter", func(t *testing.T) {
		repo := newMemRepository()
		formation := seedFormation(repo, 1, models.FormationPublished)
		formation.EnrolledCount = 3
		class := seedClass(repo, 10, 1, "teacher-1", 5, 2)
		classID := uint(10)
		enrollment := seedEnrollment(repo, "student-1", models.EnrollmentActive, &classID)
		service := NewEnrollmentService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		err := service.Withdraw(ctx, testStudent("student-1"), enrollment.ID)

		assert.NoError(t, err)
		assert.Equal(t, models.EnrollmentSuspended, enrollment.Status)
		assert.Equal(t, 1, class.CurrentStudents)
		assert.Equal(t, 2, formation.EnrolledCount)
	})

	t.Run("Already_Withdrawn_Is_Noop", func(t *testing.T) {
		repo := newMemRepository()
		enrollment := seedEnrollment(repo, "student-1", models.EnrollmentSuspended, nil)
		service := NewEnrollmentService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		err := service.Withdraw(ctx, testStudent("student-1"), enrollment.ID)

		assert.NoError(t, err)
		assert.Equal(t, 0, repo.commits)
	})

	t.Run("Other_Student_Denied_Admin_Allowed", func(t *testing.T) {
		repo := newMemRepository()
		seedFormation(repo, 1, models.FormationPublished)
		enrollment := seedEnrollment(repo, "student-1", models.EnrollmentActive, nil)
		service := NewEnrollmentService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		err := service.Withdraw(ctx, testStudent("student-2"), enrollment.ID)
		assert.True(t, IsUnauthorized(err))

		err = service.Withdraw(ctx, testAdmin("admin-1"), enrollment.ID)
		assert.NoError(t, err)
	})
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("Reaching_100_Completes_And_Publishes", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		enrollment := &models.Enrollment{StudentID: "student-1", FormationID: 1, Status: models.EnrollmentActive, ProgressPercentage: 80}
		_ = repo.enrollments.Create(ctx, enrollment)
		service := NewEnrollmentService(repo, publisher, newTestLogger(), newTestValidator())

		updated, err := service.UpdateProgress(ctx, testStudent("student-1"), enrollment.ID, 100)

		assert.NoError(t, err)
		assert.Equal(t, models.EnrollmentCompleted, updated.Status)
		assert.NotNil(t, updated.CompletionDate)

		published := publisher.PublishedEvents()
		if assert.Len(t, published, 1) {
			assert.Equal(t, events.EventEnrollmentCompleted, published[0].Type)
		}
	})

	t.Run("Already_Completed_Does_Not_Republish", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		completion := fixedTime(9)
		enrollment := &models.Enrollment{StudentID: "student-1", FormationID: 1, Status: models.EnrollmentCompleted, ProgressPercentage: 100, CompletionDate: &completion}
		_ = repo.enrollments.Create(ctx, enrollment)
		service := NewEnrollmentService(repo, publisher, newTestLogger(), newTestValidator())

		_, err := service.UpdateProgress(ctx, testStudent("student-1"), enrollment.ID, 100)

		assert.NoError(t, err)
		assert.Empty(t, publisher.PublishedEvents())
		assert.Equal(t, completion, *enrollment.CompletionDate)
	})

	t.Run("Suspended_Enrollment_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		enrollment := &models.Enrollment{StudentID: "student-1", FormationID: 1, Status: models.EnrollmentSuspended}
		_ = repo.enrollments.Create(ctx, enrollment)
		service := NewEnrollmentService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		_, err := service.UpdateProgress(ctx, testStudent("student-1"), enrollment.ID, 50)
		assert.ErrorIs(t, err, ErrEnrollmentInactive)
	})
}

func TestEnrollmentService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	_ = repo.enrollments.Create(ctx, &models.Enrollment{StudentID: "student-1", FormationID: 1, Status: models.EnrollmentActive})
	_ = repo.enrollments.Create(ctx, &models.Enrollment{StudentID: "student-2", FormationID: 1, Status: models.EnrollmentActive})
	service := NewEnrollmentService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

	t.Run("Student_Sees_Only_Own_Ledger", func(t *testing.T) {
		enrollments, total, err := service.List(ctx, testStudent("student-1"), repositories.EnrollmentFilters{})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		if assert.Len(t, enrollments, 1) {
			assert.Equal(t, "student-1", enrollments[0].StudentID)
		}
	})

	t.Run("Admin_Sees_All", func(t *testing.T) {
		_, total, err := service.List(ctx, testAdmin("admin-1"), repositories.EnrollmentFilters{})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}
