package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCaregiver Role = "caregiver"
	RoleFamily    Role = "family"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCaregiver, RoleFamily:
		return true
	}
	return false
}

// CanWrite reports whether the role may change clinical data. Family members only read.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleCaregiver
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("a user with this email already exists")
	ErrUserAlreadyActive   = errors.New("user is already active")
	ErrUserInactive        = errors.New("user is already inactive")
	ErrInvalidRole         = errors.New("invalid role")
	ErrPatientLinkRequired = errors.New("family users must be linked to a patient")
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index" json:"role"`

	// Family members follow exactly one patient.
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index" json:"patient_id,omitempty"`

	IsActive          bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	FailedLoginCount  int        `gorm:"column:failed_login_count;default:0" json:"-"`
	LockedUntil       *time.Time `gorm:"column:locked_until" json:"-"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	PasswordChangedAt time.Time  `gorm:"column:password_changed_at" json:"-"`
}

func (User) TableName() string {
	return "auth.users"
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

func (u *User) Activate() error {
	if u.IsActive {
		return ErrUserAlreadyActive
	}
	u.IsActive = true
	return nil
}

func (u *User) Deactivate() error {
	if !u.IsActive {
		return ErrUserInactive
	}
	u.IsActive = false
	return nil
}

type CreateUserCommand struct {
	Email     string
	Password  string
	FullName  string
	Role      Role
	PatientID *uuid.UUID
}

type ListUsersQuery struct {
	Role     *Role
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

type PagedUsers struct {
	Users      []*User `json:"users"`
	TotalCount int64   `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// ValidateFullName mirrors the patient rule: at least three letters after trimming.
func ValidateFullName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= 3
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
	ActionLogout AuditAction = "logout"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(20);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"` // fits IPv6

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Changes   string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID    uuid.UUID  `json:"sub"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`

	// Set on validated tokens only.
	TokenID   string    `json:"jti,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
}
