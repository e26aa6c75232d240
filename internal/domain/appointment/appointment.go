package appointment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// State transitions:
//
//	scheduled → completed
//	scheduled → cancelled
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	PatientID  uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	ProviderID *uuid.UUID `gorm:"column:provider_id;type:uuid;index" json:"provider_id,omitempty"`

	Title        string            `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description  string            `gorm:"column:description;type:text" json:"description,omitempty"`
	ScheduledAt  time.Time         `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	DurationMins int               `gorm:"column:duration_mins;not null;default:30" json:"duration_minutes"`
	Location     string            `gorm:"column:location;type:varchar(255);not null" json:"location"`
	DoctorName   string            `gorm:"column:doctor_name;type:varchar(255)" json:"doctor_name,omitempty"`
	Specialty    string            `gorm:"column:specialty;type:varchar(100)" json:"specialty,omitempty"`
	Status       AppointmentStatus `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index" json:"status"`
	ReminderSent bool              `gorm:"column:reminder_sent;not null;default:false" json:"reminder_sent"`

	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// New validates cmd against now and returns a scheduled appointment.
func New(cmd *CreateAppointmentCommand, now time.Time) (*Appointment, error) {
	title := strings.TrimSpace(cmd.Title)
	if utf8.RuneCountInString(title) < 3 {
		return nil, ErrTitleTooShort
	}
	if cmd.DurationMins <= 0 {
		return nil, ErrInvalidDuration
	}
	if cmd.ScheduledAt.Before(now) {
		return nil, ErrScheduledInPast
	}
	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	return &Appointment{
		ID:           uuid.New(),
		PatientID:    cmd.PatientID,
		ProviderID:   cmd.ProviderID,
		Title:        title,
		Description:  cmd.Description,
		ScheduledAt:  cmd.ScheduledAt,
		DurationMins: cmd.DurationMins,
		Location:     location,
		DoctorName:   cmd.DoctorName,
		Specialty:    cmd.Specialty,
		Status:       StatusScheduled,
		CreatedBy:    cmd.CreatedBy,
	}, nil
}

func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMins) * time.Minute)
}

func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) bool {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusScheduled: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(now time.Time) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	a.CancelledAt = &now
	return nil
}

func (a *Appointment) Complete(now time.Time) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	a.CompletedAt = &now
	return nil
}

// Reschedule moves the appointment and re-arms its reminder. A zero duration keeps
// the current one.
func (a *Appointment) Reschedule(at time.Time, durationMins int, now time.Time) error {
	if a.Status == StatusCancelled {
		return ErrRescheduleCancelled
	}
	if at.Before(now) {
		return ErrScheduledInPast
	}
	if durationMins < 0 {
		return ErrInvalidDuration
	}
	a.ScheduledAt = at
	if durationMins > 0 {
		a.DurationMins = durationMins
	}
	a.ReminderSent = false
	return nil
}

// NeedsReminder reports whether a reminder is due for an appointment starting
// within window of now.
func (a *Appointment) NeedsReminder(now time.Time, window time.Duration) bool {
	if a.Status != StatusScheduled || a.ReminderSent {
		return false
	}
	return !a.ScheduledAt.Before(now) && !a.ScheduledAt.After(now.Add(window))
}

func (a *Appointment) MarkReminderSent() {
	a.ReminderSent = true
}

type CreateAppointmentCommand struct {
	PatientID    uuid.UUID
	ProviderID   *uuid.UUID
	Title        string
	Description  string
	ScheduledAt  time.Time
	DurationMins int
	Location     string
	DoctorName   string
	Specialty    string
	CreatedBy    uuid.UUID
}

type RescheduleAppointmentCommand struct {
	ScheduledAt  time.Time
	DurationMins int
}

type ListAppointmentsQuery struct {
	PatientID   *uuid.UUID
	CaregiverID *uuid.UUID // restricts results to patients of this caregiver
	Status      *AppointmentStatus
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
}

type PagedAppointments struct {
	Appointments []*Appointment `json:"appointments"`
	TotalCount   int64          `json:"total_count"`
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
	TotalPages   int            `json:"total_pages"`
}
