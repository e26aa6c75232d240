package medication

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily           Frequency = "daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyAsNeeded        Frequency = "as_needed"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily, FrequencyAsNeeded:
		return true
	}
	return false
}

type Medication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	PatientID     uuid.UUID   `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	Name          string      `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Dosage        string      `gorm:"column:dosage;type:varchar(100);not null" json:"dosage"`
	Frequency     Frequency   `gorm:"column:frequency;type:varchar(30);not null" json:"frequency"`
	ScheduleTimes []TimeOfDay `gorm:"column:schedule_times;serializer:json;not null" json:"schedule_times"`
	StartDate     time.Time   `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate       *time.Time  `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Instructions  string      `gorm:"column:instructions;type:text" json:"instructions,omitempty"`
	IsActive      bool        `gorm:"column:is_active;not null;index" json:"is_active"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Medication) TableName() string {
	return "clinical.medications"
}

type CreateMedicationCommand struct {
	PatientID     uuid.UUID
	Name          string
	Dosage        string
	Frequency     Frequency
	ScheduleTimes []TimeOfDay
	StartDate     time.Time
	EndDate       *time.Time
	Instructions  string
	CreatedBy     uuid.UUID
}

// New validates cmd and returns an active medication with a fresh ID.
func New(cmd *CreateMedicationCommand) (*Medication, error) {
	name := strings.TrimSpace(cmd.Name)
	if !cmd.Frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}
	if utf8.RuneCountInString(name) < 2 {
		return nil, ErrNameTooShort
	}
	if strings.TrimSpace(cmd.Dosage) == "" {
		return nil, ErrDosageRequired
	}
	times, err := normalizeSchedule(cmd.ScheduleTimes)
	if err != nil {
		return nil, err
	}
	if cmd.StartDate.IsZero() {
		return nil, ErrStartDateRequired
	}
	start := DateOf(cmd.StartDate)
	var end *time.Time
	if cmd.EndDate != nil {
		e := DateOf(*cmd.EndDate)
		if e.Before(start) {
			return nil, ErrEndBeforeStart
		}
		end = &e
	}

	return &Medication{
		ID:            uuid.New(),
		PatientID:     cmd.PatientID,
		Name:          name,
		Dosage:        strings.TrimSpace(cmd.Dosage),
		Frequency:     cmd.Frequency,
		ScheduleTimes: times,
		StartDate:     start,
		EndDate:       end,
		Instructions:  strings.TrimSpace(cmd.Instructions),
		IsActive:      true,
		CreatedBy:     cmd.CreatedBy,
	}, nil
}

func (m *Medication) Deactivate() error {
	if !m.IsActive {
		return ErrAlreadyInactive
	}
	m.IsActive = false
	return nil
}

func (m *Medication) UpdateSchedule(times []TimeOfDay) error {
	normalized, err := normalizeSchedule(times)
	if err != nil {
		return err
	}
	m.ScheduleTimes = normalized
	return nil
}

// ActiveOn reports whether date's calendar day falls inside the medication's start/end
// window. date is read in its own location; start and end are calendar dates read in UTC,
// which is how DateOf builds them and how postgres returns date columns.
func (m *Medication) ActiveOn(date time.Time) bool {
	day := civilDay(date)
	if civilDay(m.StartDate.UTC()) > day {
		return false
	}
	if m.EndDate != nil && civilDay(m.EndDate.UTC()) < day {
		return false
	}
	return true
}

// normalizeSchedule drops duplicates, keeping first-seen order.
func normalizeSchedule(times []TimeOfDay) ([]TimeOfDay, error) {
	if len(times) == 0 {
		return nil, ErrScheduleRequired
	}
	seen := make(map[TimeOfDay]struct{}, len(times))
	out := make([]TimeOfDay, 0, len(times))
	for _, t := range times {
		if !t.IsValid() {
			return nil, ErrInvalidTimeOfDay
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// DateOf returns t's calendar date, in t's own location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
