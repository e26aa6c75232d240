package medication

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ScheduledDose is one planned intake on a given day. It is computed, never stored.
type ScheduledDose struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	ScheduledAt    time.Time `json:"scheduled_time"`
	Instructions   string    `json:"instructions,omitempty"`
	Taken          bool      `json:"taken"`
}

// GenerateDailySchedule lists every dose due on date's calendar day, ordered by time.
// Doses at the same instant keep input order.
func GenerateDailySchedule(meds []*Medication, date time.Time) []ScheduledDose {
	doses := make([]ScheduledDose, 0)

	for _, m := range meds {
		if m == nil || !m.IsActive || !m.ActiveOn(date) {
			continue
		}
		for _, t := range m.ScheduleTimes {
			doses = append(doses, ScheduledDose{
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Dosage:         m.Dosage,
				ScheduledAt:    t.On(date),
				Instructions:   m.Instructions,
			})
		}
	}

	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].ScheduledAt.Before(doses[j].ScheduledAt)
	})

	return doses
}

// NextDose returns the first schedule time after now, rolling over to the earliest time
// tomorrow. The zero time is returned when the medication has no schedule.
func NextDose(m *Medication, now time.Time) time.Time {
	if len(m.ScheduleTimes) == 0 {
		return time.Time{}
	}

	times := slices.Clone(m.ScheduleTimes)
	slices.Sort(times)

	for _, t := range times {
		if at := t.On(now); at.After(now) {
			return at
		}
	}
	return times[0].On(now.AddDate(0, 0, 1))
}
