package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/stretchr/testify/assert"
)

// newCourseServiceAt builds the service with a frozen clock so the join
// window and transition stamps are deterministic.
func newCourseServiceAt(repo *memRepository, publisher *events.MockEventPublisher, now time.Time) CourseService {
	return &courseService{
		repo:      repo,
		publisher: publisher,
		logger:    newTestLogger(),
		validator: newTestValidator(),
		now:       func() time.Time { return now },
	}
}

func seedCourse(repo *memRepository, id uint, teacherID string, status models.CourseStatus, scheduledAt time.Time, durationMinutes int) *models.Course {
	course := &models.Course{
		ID:              id,
		ClassID:         10,
		TeacherID:       teacherID,
		Title:           "Concurrency Patterns",
		Type:            models.CourseLecture,
		Status:          status,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
	}
	repo.courses.courses[id] = course
	if id >= repo.courses.nextID {
		repo.courses.nextID = id
	}
	return course
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()
	scheduledAt := fixedTime(14)

	t.Run("Class_Teacher_Creates", func(t *testing.T) {
		repo := newMemRepository()
		seedClass(repo, 10, 1, "teacher-1", 20, 0)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(9))

		course, err := service.Create(ctx, testTeacher("teacher-1"), &CreateCourseRequest{
			ClassID:         10,
			Title:           "Concurrency Patterns",
			ScheduledAt:     scheduledAt,
			DurationMinutes: 60,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.CourseScheduled, course.Status)
		assert.Equal(t, models.CourseLecture, course.Type)
		assert.Equal(t, "teacher-1", course.TeacherID)
	})

	t.Run("Other_Teacher_Denied", func(t *testing.T) {
		repo := newMemRepository()
		seedClass(repo, 10, 1, "teacher-1", 20, 0)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(9))

		_, err := service.Create(ctx, testTeacher("teacher-2"), &CreateCourseRequest{
			ClassID:         10,
			Title:           "Concurrency Patterns",
			ScheduledAt:     scheduledAt,
			DurationMinutes: 60,
		})
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Admin_Creates_For_Class_Teacher", func(t *testing.T) {
		repo := newMemRepository()
		seedClass(repo, 10, 1, "teacher-1", 20, 0)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(9))

		course, err := service.Create(ctx, testAdmin("admin-1"), &CreateCourseRequest{
			ClassID:         10,
			Title:           "Final Exam",
			Type:            "exam",
			ScheduledAt:     scheduledAt,
			DurationMinutes: 120,
		})

		assert.NoError(t, err)
		assert.Equal(t, "teacher-1", course.TeacherID)
		assert.Equal(t, models.CourseExam, course.Type)
	})

	t.Run("Student_Denied", func(t *testing.T) {
		repo := newMemRepository()
		seedClass(repo, 10, 1, "teacher-1", 20, 0)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(9))

		_, err := service.Create(ctx, testStudent("student-1"), &CreateCourseRequest{
			ClassID:         10,
			Title:           "Concurrency Patterns",
			ScheduledAt:     scheduledAt,
			DurationMinutes: 60,
		})
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Missing_Class_Rejected", func(t *testing.T) {
		service := newCourseServiceAt(newMemRepository(), newTestPublisher(), fixedTime(9))

		_, err := service.Create(ctx, testTeacher("teacher-1"), &CreateCourseRequest{
			ClassID:         99,
			Title:           "Concurrency Patterns",
			ScheduledAt:     scheduledAt,
			DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, ErrClassNotFound)
	})
}

func TestCourseService_Transitions(t *testing.T) {
	ctx := context.Background()
	scheduledAt := fixedTime(14)

	t.Run("Start_Publishes_On_Course_Channel", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		seedCourse(repo, 1, "teacher-1", models.CourseScheduled, scheduledAt, 60)
		service := newCourseServiceAt(repo, publisher, fixedTime(14))

		course, err := service.Start(ctx, testTeacher("teacher-1"), 1)

		assert.NoError(t, err)
		assert.Equal(t, models.CourseLive, course.Status)
		assert.NotNil(t, course.StartedAt)

		published := publisher.PublishedEvents()
		if assert.Len(t, published, 1) {
			assert.Equal(t, events.EventCourseStarted, published[0].Type)
			assert.Equal(t, "course.1", published[0].Channel)
		}
	})

	t.Run("Invalid_Transition_Surfaces_Typed_Error", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseCompleted, scheduledAt, 60)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(16))

		_, err := service.Start(ctx, testTeacher("teacher-1"), 1)

		var transitionErr *models.InvalidTransitionError
		if assert.ErrorAs(t, err, &transitionErr) {
			assert.Equal(t, "course", transitionErr.Entity)
			assert.Equal(t, string(models.CourseCompleted), transitionErr.From)
		}
	})

	t.Run("Non_Owner_Denied_Admin_Allowed", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseScheduled, scheduledAt, 60)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(14))

		_, err := service.Start(ctx, testTeacher("teacher-2"), 1)
		assert.True(t, IsUnauthorized(err))

		_, err = service.Start(ctx, testAdmin("admin-1"), 1)
		assert.NoError(t, err)
	})

	t.Run("Cancel_Records_Reason", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseScheduled, scheduledAt, 60)
		service := newCourseServiceAt(repo, newTestPublisher(), fixedTime(9))

		reason := "teacher unavailable"
		course, err := service.Cancel(ctx, testTeacher("teacher-1"), 1, &reason)

		assert.NoError(t, err)
		assert.Equal(t, models.CourseCancelled, course.Status)
		assert.Equal(t, "teacher unavailable", *course.CancelReason)
	})

	t.Run("Reschedule_Resets_Schedule", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		seedCourse(repo, 1, "teacher-1", models.CourseLive, scheduledAt, 60)
		service := newCourseServiceAt(repo, publisher, fixedTime(14))

		newTime := fixedTime(18)
		course, err := service.Reschedule(ctx, testTeacher("teacher-1"), 1, newTime)

		assert.NoError(t, err)
		assert.Equal(t, models.CourseScheduled, course.Status)
		assert.Equal(t, newTime, course.ScheduledAt)
		assert.Equal(t, events.EventCourseRescheduled, publisher.PublishedEvents()[0].Type)
	})

	t.Run("Missing_Course_Rejected", func(t *testing.T) {
		service := newCourseServiceAt(newMemRepository(), newTestPublisher(), fixedTime(14))

		_, err := service.Start(ctx, testTeacher("teacher-1"), 99)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestCourseService_Join(t *testing.T) {
	ctx := context.Background()
	scheduledAt := fixedTime(14) // 60 minute session

	setup := func(now time.Time) (*memRepository, CourseService) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseScheduled, scheduledAt, 60)
		repo.enrollments.active = map[string]map[uint]bool{"student-1": {10: true}}
		return repo, newCourseServiceAt(repo, newTestPublisher(), now)
	}

	t.Run("Enrolled_Student_Checks_In_During_Window", func(t *testing.T) {
		repo, service := setup(scheduledAt.Add(2 * time.Minute))

		attendance, err := service.Join(ctx, testStudent("student-1"), 1)

		assert.NoError(t, err)
		assert.NotNil(t, attendance)
		assert.Equal(t, models.AttendancePresent, attendance.Status)
		assert.NotNil(t, attendance.CheckInAt)
		assert.Len(t, repo.attendances.records, 1)
	})

	t.Run("Late_Join_Marked_Late", func(t *testing.T) {
		_, service := setup(scheduledAt.Add(20 * time.Minute))

		attendance, err := service.Join(ctx, testStudent("student-1"), 1)

		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceLate, attendance.Status)
	})

	t.Run("Rejoin_Keeps_First_CheckIn", func(t *testing.T) {
		repo, service := setup(scheduledAt.Add(2 * time.Minute))

		first, err := service.Join(ctx, testStudent("student-1"), 1)
		assert.NoError(t, err)
		firstCheckIn := *first.CheckInAt

		later := newCourseServiceAt(repo, newTestPublisher(), scheduledAt.Add(30*time.Minute))
		again, err := later.Join(ctx, testStudent("student-1"), 1)
		assert.NoError(t, err)
		assert.Equal(t, firstCheckIn, *again.CheckInAt)
	})

	t.Run("Before_Window_Rejected", func(t *testing.T) {
		_, service := setup(scheduledAt.Add(-15 * time.Minute))

		_, err := service.Join(ctx, testStudent("student-1"), 1)
		assert.ErrorIs(t, err, ErrCourseNotJoinable)
	})

	t.Run("After_Window_Rejected", func(t *testing.T) {
		_, service := setup(scheduledAt.Add(60 * time.Minute))

		_, err := service.Join(ctx, testStudent("student-1"), 1)
		assert.ErrorIs(t, err, ErrCourseNotJoinable)
	})

	t.Run("Live_Course_Joinable_Past_Window", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseLive, scheduledAt, 60)
		repo.enrollments.active = map[string]map[uint]bool{"student-1": {10: true}}
		service := newCourseServiceAt(repo, newTestPublisher(), scheduledAt.Add(90*time.Minute))

		_, err := service.Join(ctx, testStudent("student-1"), 1)
		assert.NoError(t, err)
	})

	t.Run("Teacher_Joins_Without_Attendance", func(t *testing.T) {
		repo, service := setup(scheduledAt)

		attendance, err := service.Join(ctx, testTeacher("teacher-1"), 1)

		assert.NoError(t, err)
		assert.Nil(t, attendance)
		assert.Empty(t, repo.attendances.records)
	})

	t.Run("Unenrolled_Student_Denied", func(t *testing.T) {
		_, service := setup(scheduledAt)

		_, err := service.Join(ctx, testStudent("student-2"), 1)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Cancelled_Course_Never_Joinable", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseCancelled, scheduledAt, 60)
		service := newCourseServiceAt(repo, newTestPublisher(), scheduledAt)

		_, err := service.Join(ctx, testStudent("student-1"), 1)
		assert.ErrorIs(t, err, ErrCourseNotJoinable)
	})
}

func TestCourseService_CheckOut(t *testing.T) {
	ctx := context.Background()
	scheduledAt := fixedTime(14)

	t.Run("Stamps_CheckOut_And_Duration", func(t *testing.T) {
		repo := newMemRepository()
		course := seedCourse(repo, 1, "teacher-1", models.CourseLive, scheduledAt, 60)
		checkIn := scheduledAt.Add(2 * time.Minute)
		attendance := &models.Attendance{StudentID: "student-1", CourseID: 1, Status: models.AttendanceAbsent}
		attendance.CheckIn(course, checkIn)
		_ = repo.attendances.Create(ctx, attendance)
		service := newCourseServiceAt(repo, newTestPublisher(), scheduledAt.Add(55*time.Minute))

		got, err := service.CheckOut(ctx, testStudent("student-1"), 1)

		assert.NoError(t, err)
		assert.NotNil(t, got.CheckOutAt)
		assert.Equal(t, 53*time.Minute, got.Duration())
	})

	t.Run("Without_Attendance_Rejected", func(t *testing.T) {
		repo := newMemRepository()
		seedCourse(repo, 1, "teacher-1", models.CourseLive, scheduledAt, 60)
		service := newCourseServiceAt(repo, newTestPublisher(), scheduledAt)

		_, err := service.CheckOut(ctx, testStudent("student-1"), 1)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
