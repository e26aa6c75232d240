package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// DueForReminder returns scheduled appointments starting in [from, to] with no reminder sent.
	DueForReminder(ctx context.Context, from, to time.Time) ([]*Appointment, error)

	// MarkReminderSent flips the reminder flag for a single appointment.
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	// CountByStatusBetween groups appointments scheduled in [from, to) by status.
	CountByStatusBetween(ctx context.Context, from, to time.Time) (map[AppointmentStatus]int64, error)
}
