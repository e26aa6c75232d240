package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrScheduledInPast         = errors.New("appointment date cannot be in the past")
	ErrInvalidDuration         = errors.New("duration must be greater than 0")
	ErrTitleTooShort           = errors.New("title must have at least 3 characters")
	ErrLocationRequired        = errors.New("location is required")
	ErrRescheduleCancelled     = errors.New("cannot reschedule a cancelled appointment")
)
