package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this CPF already exists")
	ErrPatientInactive      = errors.New("patient is already inactive")
	ErrInvalidGender        = errors.New("invalid gender value")
	ErrInvalidDateOfBirth   = errors.New("date of birth must be in the past")
	ErrImplausibleAge       = errors.New("date of birth implies an age above 120 years")
	ErrNameTooShort         = errors.New("full name must have at least 3 characters")
)
