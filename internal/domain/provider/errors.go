package provider

import "errors"

var (
	ErrProviderNotFound      = errors.New("provider not found")
	ErrProviderAlreadyExists = errors.New("provider with this document already exists")
	ErrNotPending            = errors.New("only providers pending approval can be approved")
	ErrPendingDeactivation   = errors.New("a provider pending approval cannot be deactivated")
	ErrNotActive             = errors.New("only active providers can add services")
	ErrInvalidRating         = errors.New("rating must be between 0 and 5")
	ErrServiceNotFound       = errors.New("service not found")
)
