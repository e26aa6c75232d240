package service

import (
	"errors"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/google/uuid"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func validationError(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID    uuid.UUID
	Role      domain.Role
	PatientID *uuid.UUID
	IP        string
	RequestID string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

func (a Actor) requireAdmin() error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// canRead reports whether the actor may see data of the patient owned by caregiverID.
func (a Actor) canRead(patientID, caregiverID uuid.UUID) bool {
	switch a.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCaregiver:
		return caregiverID == a.UserID
	case domain.RoleFamily:
		return a.PatientID != nil && *a.PatientID == patientID
	}
	return false
}

func (a Actor) canWrite(caregiverID uuid.UUID) bool {
	switch a.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCaregiver:
		return caregiverID == a.UserID
	}
	return false
}

type AuditEntry struct {
	Actor        Actor
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	Changes      string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, size *int) {
	if *size <= 0 || *size > maxPageSize {
		*size = defaultPageSize
	}
	if *page <= 0 {
		*page = 1
	}
}
