package insurer

import "errors"

var (
	ErrInsurerNotFound      = errors.New("insurer not found")
	ErrInsurerAlreadyExists = errors.New("insurer with this CNPJ already exists")
	ErrHasActivePlans       = errors.New("cannot deactivate an insurer with active plans")
	ErrNotActive            = errors.New("only active insurers can add plans")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrInvalidType          = errors.New("invalid insurer type")
	ErrInvalidPlanType      = errors.New("invalid plan type")
)
