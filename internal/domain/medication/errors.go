package medication

import "errors"

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrInvalidFrequency   = errors.New("invalid frequency: must be one of daily, twice_daily, three_times_daily, as_needed")
	ErrNameTooShort       = errors.New("medication name must have at least 2 characters")
	ErrDosageRequired     = errors.New("dosage is required")
	ErrScheduleRequired   = errors.New("at least one schedule time is required")
	ErrEndBeforeStart     = errors.New("end date cannot be before start date")
	ErrStartDateRequired  = errors.New("start date is required")
	ErrAlreadyInactive    = errors.New("medication is already inactive")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
)
