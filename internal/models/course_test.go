package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scheduledCourse(at time.Time) *Course {
	return &Course{
		ID:              1,
		ClassID:         10,
		TeacherID:       "teacher-1",
		Title:           "Algebra II",
		Status:          CourseScheduled,
		ScheduledAt:     at,
		DurationMinutes: 60,
	}
}

func TestCourse_CanJoin(t *testing.T) {
	scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("Window_Bounds", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)

		cases := []struct {
			name string
			now  time.Time
			want bool
		}{
			{"before window", scheduledAt.Add(-15 * time.Minute), false},
			{"exactly at open", scheduledAt.Add(-EarlyJoinWindow), true},
			{"five minutes early", scheduledAt.Add(-5 * time.Minute), true},
			{"at scheduled time", scheduledAt, true},
			{"mid session", scheduledAt.Add(30 * time.Minute), true},
			{"exactly at end", scheduledAt.Add(60 * time.Minute), false},
			{"after end", scheduledAt.Add(90 * time.Minute), false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, course.CanJoin(tc.now))
			})
		}
	})

	t.Run("Live_Always_Joinable", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)
		assert.NoError(t, course.Start(scheduledAt))

		// Live overrides the window even long past the scheduled end.
		assert.True(t, course.CanJoin(scheduledAt.Add(3*time.Hour)))
	})

	t.Run("Terminal_Never_Joinable", func(t *testing.T) {
		completed := scheduledCourse(scheduledAt)
		assert.NoError(t, completed.Complete(scheduledAt))
		assert.False(t, completed.CanJoin(scheduledAt))

		cancelled := scheduledCourse(scheduledAt)
		assert.NoError(t, cancelled.Cancel(nil, scheduledAt))
		assert.False(t, cancelled.CanJoin(scheduledAt))
	})
}

func TestCourse_Transitions(t *testing.T) {
	scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := scheduledAt.Add(time.Minute)

	t.Run("Start_From_Scheduled", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)

		err := course.Start(now)
		assert.NoError(t, err)
		assert.Equal(t, CourseLive, course.Status)
		assert.NotNil(t, course.StartedAt)
		assert.Equal(t, now, *course.StartedAt)
	})

	t.Run("Start_Twice_Fails", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)
		assert.NoError(t, course.Start(now))

		err := course.Start(now)
		var ite *InvalidTransitionError
		assert.True(t, errors.As(err, &ite))
		assert.Equal(t, "course", ite.Entity)
		assert.Equal(t, string(CourseLive), ite.From)
	})

	t.Run("Complete_From_Scheduled_Or_Live", func(t *testing.T) {
		fromScheduled := scheduledCourse(scheduledAt)
		assert.NoError(t, fromScheduled.Complete(now))
		assert.Equal(t, CourseCompleted, fromScheduled.Status)

		fromLive := scheduledCourse(scheduledAt)
		assert.NoError(t, fromLive.Start(now))
		assert.NoError(t, fromLive.Complete(now))
		assert.NotNil(t, fromLive.EndedAt)
	})

	t.Run("Cancel_Records_Reason", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)
		reason := "teacher unavailable"

		err := course.Cancel(&reason, now)
		assert.NoError(t, err)
		assert.Equal(t, CourseCancelled, course.Status)
		assert.Equal(t, &reason, course.CancelReason)
	})

	t.Run("Terminal_States_Reject_All_Transitions", func(t *testing.T) {
		for _, terminal := range []func(*Course) error{
			func(c *Course) error { return c.Complete(now) },
			func(c *Course) error { return c.Cancel(nil, now) },
		} {
			course := scheduledCourse(scheduledAt)
			assert.NoError(t, terminal(course))

			var ite *InvalidTransitionError
			assert.True(t, errors.As(course.Start(now), &ite))
			assert.True(t, errors.As(course.Complete(now), &ite))
			assert.True(t, errors.As(course.Cancel(nil, now), &ite))
			assert.True(t, errors.As(course.Reschedule(now), &ite))
		}
	})

	t.Run("Reschedule_Resets_To_Scheduled", func(t *testing.T) {
		course := scheduledCourse(scheduledAt)
		assert.NoError(t, course.Start(now))

		newTime := scheduledAt.Add(24 * time.Hour)
		err := course.Reschedule(newTime)
		assert.NoError(t, err)
		assert.Equal(t, CourseScheduled, course.Status)
		assert.Equal(t, newTime, course.ScheduledAt)
		assert.Nil(t, course.StartedAt)
	})
}

func TestCourse_DerivedPredicates(t *testing.T) {
	scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	course := scheduledCourse(scheduledAt)

	assert.Equal(t, scheduledAt.Add(time.Hour), course.EndsAt())
	assert.True(t, course.IsUpcoming(scheduledAt.Add(-time.Hour)))
	assert.False(t, course.IsUpcoming(scheduledAt.Add(time.Hour)))

	assert.NoError(t, course.Start(scheduledAt))
	assert.True(t, course.IsHappeningNow(scheduledAt.Add(30*time.Minute)))
	assert.False(t, course.IsHappeningNow(scheduledAt.Add(2*time.Hour)))
}

func TestAttendance_CheckInOut(t *testing.T) {
	scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	course := scheduledCourse(scheduledAt)

	t.Run("OnTime_Is_Present", func(t *testing.T) {
		attendance := &Attendance{StudentID: "s1", CourseID: 1}
		attendance.CheckIn(course, scheduledAt.Add(2*time.Minute))

		assert.Equal(t, AttendancePresent, attendance.Status)
		assert.NotNil(t, attendance.CheckInAt)
	})

	t.Run("Late_After_Five_Minutes", func(t *testing.T) {
		attendance := &Attendance{StudentID: "s1", CourseID: 1}
		attendance.CheckIn(course, scheduledAt.Add(10*time.Minute))

		assert.Equal(t, AttendanceLate, attendance.Status)
	})

	t.Run("CheckIn_Idempotent", func(t *testing.T) {
		attendance := &Attendance{StudentID: "s1", CourseID: 1}
		first := scheduledAt.Add(time.Minute)
		attendance.CheckIn(course, first)
		attendance.CheckIn(course, scheduledAt.Add(20*time.Minute))

		assert.Equal(t, first, *attendance.CheckInAt)
		assert.Equal(t, AttendancePresent, attendance.Status)
	})

	t.Run("Duration_Requires_Both_Stamps", func(t *testing.T) {
		attendance := &Attendance{StudentID: "s1", CourseID: 1}
		assert.Equal(t, time.Duration(0), attendance.Duration())

		attendance.CheckIn(course, scheduledAt)
		assert.Equal(t, time.Duration(0), attendance.Duration())

		attendance.CheckOut(scheduledAt.Add(50 * time.Minute))
		assert.Equal(t, 50*time.Minute, attendance.Duration())

		// CheckOut does not move once stamped.
		attendance.CheckOut(scheduledAt.Add(2 * time.Hour))
		assert.Equal(t, 50*time.Minute, attendance.Duration())
	})

	t.Run("CheckOut_Without_CheckIn_Is_Noop", func(t *testing.T) {
		attendance := &Attendance{StudentID: "s1", CourseID: 1}
		attendance.CheckOut(scheduledAt)
		assert.Nil(t, attendance.CheckOutAt)
	})
}
