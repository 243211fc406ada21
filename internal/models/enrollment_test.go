package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnrollment_UpdateProgress(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("Clamped_To_Range", func(t *testing.T) {
		e := &Enrollment{Status: EnrollmentActive}

		e.UpdateProgress(-10, now)
		assert.Equal(t, 0.0, e.ProgressPercentage)

		e.UpdateProgress(150, now)
		assert.Equal(t, 100.0, e.ProgressPercentage)
	})

	t.Run("Completion_Stamped_Once", func(t *testing.T) {
		e := &Enrollment{Status: EnrollmentActive}

		e.UpdateProgress(100, now)
		assert.Equal(t, EnrollmentCompleted, e.Status)
		assert.Equal(t, now, *e.CompletionDate)

		later := now.Add(time.Hour)
		e.UpdateProgress(100, later)
		assert.Equal(t, now, *e.CompletionDate)
	})

	t.Run("Partial_Progress_Keeps_Status", func(t *testing.T) {
		e := &Enrollment{Status: EnrollmentActive}

		e.UpdateProgress(55, now)
		assert.Equal(t, EnrollmentActive, e.Status)
		assert.Equal(t, 55.0, e.ProgressPercentage)
		assert.Nil(t, e.CompletionDate)
	})
}

func TestGrade_Derivations(t *testing.T) {
	cases := []struct {
		grade   float64
		max     float64
		letter  string
		mention string
		passing bool
	}{
		{95, 100, "A", "Excellent", true},
		{85, 100, "B", "Excellent", true},
		{15, 20, "C", "Very Good", true},
		{62, 100, "D", "Good", true},
		{10, 20, "F", "Satisfactory", true},
		{30, 100, "F", "Insufficient", false},
	}

	for _, tc := range cases {
		g := &Grade{Grade: tc.grade, MaxGrade: tc.max}
		assert.Equal(t, tc.letter, g.Letter(), "grade %v/%v", tc.grade, tc.max)
		assert.Equal(t, tc.mention, g.Mention(), "grade %v/%v", tc.grade, tc.max)
		assert.Equal(t, tc.passing, g.IsPassing(), "grade %v/%v", tc.grade, tc.max)
	}

	// Zero max grade never divides.
	g := &Grade{Grade: 10, MaxGrade: 0}
	assert.Equal(t, 0.0, g.Percentage())
}

func TestNotification_MarkAsRead(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	n := &Notification{Title: "Course started"}

	assert.False(t, n.IsRead())
	assert.True(t, n.MarkAsRead(now))
	assert.True(t, n.IsRead())
	assert.Equal(t, now, *n.ReadAt)

	// Second call is a no-op and keeps the original stamp.
	assert.False(t, n.MarkAsRead(now.Add(time.Hour)))
	assert.Equal(t, now, *n.ReadAt)
}

func TestMessage_MarkAsRead(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	m := &Message{SenderID: "a", RecipientID: "b", Body: "hi"}

	assert.True(t, m.MarkAsRead(now))
	assert.False(t, m.MarkAsRead(now.Add(time.Minute)))
	assert.Equal(t, now, *m.ReadAt)
}

func TestFormation_EffectivePrice(t *testing.T) {
	full := &Formation{Price: 200}
	assert.Equal(t, 200.0, full.EffectivePrice())

	discounted := &Formation{Price: 200, DiscountPercent: 25}
	assert.Equal(t, 150.0, discounted.EffectivePrice())
}

func TestClassModel_Capacity(t *testing.T) {
	class := &ClassModel{MaxStudents: 2, CurrentStudents: 1}
	assert.False(t, class.IsFull())
	assert.Equal(t, 1, class.AvailableSeats())

	class.CurrentStudents = 2
	assert.True(t, class.IsFull())
	assert.Equal(t, 0, class.AvailableSeats())
}
