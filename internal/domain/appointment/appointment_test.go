package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newAppointment(t *testing.T) *Appointment {
	t.Helper()
	a, err := New(&CreateAppointmentCommand{
		PatientID:    uuid.New(),
		Title:        "Consulta de rotina",
		ScheduledAt:  now.Add(48 * time.Hour),
		DurationMins: 30,
		Location:     "Clínica São Lucas",
	}, now)
	require.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateAppointmentCommand
		want error
	}{
		{"short title", CreateAppointmentCommand{Title: "Ok", DurationMins: 30, ScheduledAt: now, Location: "X"}, ErrTitleTooShort},
		{"zero duration", CreateAppointmentCommand{Title: "Consulta", ScheduledAt: now, Location: "X"}, ErrInvalidDuration},
		{"past", CreateAppointmentCommand{Title: "Consulta", DurationMins: 30, ScheduledAt: now.Add(-time.Minute), Location: "X"}, ErrScheduledInPast},
		{"no location", CreateAppointmentCommand{Title: "Consulta", DurationMins: 30, ScheduledAt: now, Location: " "}, ErrLocationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&tt.cmd, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTransitions(t *testing.T) {
	a := newAppointment(t)
	assert.Equal(t, StatusScheduled, a.Status)

	require.NoError(t, a.Complete(now))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.NotNil(t, a.CompletedAt)

	assert.ErrorIs(t, a.Cancel(now), ErrInvalidStatusTransition)
	assert.ErrorIs(t, a.Complete(now), ErrInvalidStatusTransition)

	b := newAppointment(t)
	require.NoError(t, b.Cancel(now))
	assert.ErrorIs(t, b.Complete(now), ErrInvalidStatusTransition)
}

func TestReschedule(t *testing.T) {
	a := newAppointment(t)
	a.MarkReminderSent()

	next := now.Add(72 * time.Hour)
	require.NoError(t, a.Reschedule(next, 0, now))
	assert.Equal(t, next, a.ScheduledAt)
	assert.Equal(t, 30, a.DurationMins)
	assert.False(t, a.ReminderSent)

	require.NoError(t, a.Reschedule(next, 45, now))
	assert.Equal(t, 45, a.DurationMins)
	assert.Equal(t, next.Add(45*time.Minute), a.EndsAt())

	assert.ErrorIs(t, a.Reschedule(now.Add(-time.Hour), 0, now), ErrScheduledInPast)

	require.NoError(t, a.Cancel(now))
	assert.ErrorIs(t, a.Reschedule(next, 0, now), ErrRescheduleCancelled)
}

func TestNeedsReminder(t *testing.T) {
	a := newAppointment(t)
	window := 24 * time.Hour

	assert.False(t, a.NeedsReminder(now, window))
	assert.True(t, a.NeedsReminder(now.Add(25*time.Hour), window))

	a.MarkReminderSent()
	assert.False(t, a.NeedsReminder(now.Add(25*time.Hour), window))
}
