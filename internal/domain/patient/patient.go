package patient

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

const (
	adultAge   = 18
	elderlyAge = 65
	maxAge     = 120
)

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	CaregiverID uuid.UUID         `gorm:"column:caregiver_id;type:uuid;not null;index" json:"caregiver_id"`
	FullName    string            `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	CPF         document.Document `gorm:"column:cpf;type:varchar(11);not null;uniqueIndex" json:"cpf"`
	DateOfBirth time.Time         `gorm:"column:date_of_birth;type:date;not null" json:"date_of_birth"`
	Gender      Gender            `gorm:"column:gender;type:varchar(10);not null" json:"gender"`

	Address          string `gorm:"column:address;type:text" json:"address"`
	Phone            string `gorm:"column:phone;type:varchar(11)" json:"phone"`
	EmergencyContact string `gorm:"column:emergency_contact;type:varchar(255)" json:"emergency_contact"`
	EmergencyPhone   string `gorm:"column:emergency_phone;type:varchar(11)" json:"emergency_phone"`

	MedicalConditions string `gorm:"column:medical_conditions;type:text" json:"medical_conditions,omitempty"`
	Allergies         string `gorm:"column:allergies;type:text" json:"allergies,omitempty"`
	Observations      string `gorm:"column:observations;type:text" json:"observations,omitempty"`

	IsActive  bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

// Age in whole years at now.
func (p *Patient) Age(now time.Time) int {
	return AgeAt(p.DateOfBirth, now)
}

func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

func (p *Patient) IsPediatric(now time.Time) bool { return p.Age(now) < adultAge }

func (p *Patient) IsElderly(now time.Time) bool { return p.Age(now) >= elderlyAge }

// RequiresCompanion is true for minors and for the elderly.
func (p *Patient) RequiresCompanion(now time.Time) bool {
	return p.IsPediatric(now) || p.IsElderly(now)
}

func (p *Patient) HasMedicalConditions() bool {
	return strings.TrimSpace(p.MedicalConditions) != ""
}

func (p *Patient) RiskLevel(now time.Time) RiskLevel {
	elderly := p.IsElderly(now)
	conditions := p.HasMedicalConditions()
	switch {
	case elderly && conditions:
		return RiskHigh
	case elderly || conditions:
		return RiskMedium
	}
	return RiskLow
}

func (p *Patient) CanBeDischarged() bool {
	return p.IsActive && p.DeletedAt == nil
}

func (p *Patient) Deactivate() error {
	if !p.IsActive {
		return ErrPatientInactive
	}
	p.IsActive = false
	return nil
}

// UpdateMedicalInfo overwrites only the fields that are non-nil.
func (p *Patient) UpdateMedicalInfo(cmd *UpdateMedicalInfoCommand) {
	if cmd.MedicalConditions != nil {
		p.MedicalConditions = *cmd.MedicalConditions
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.Observations != nil {
		p.Observations = *cmd.Observations
	}
}

// ValidateRegistration checks the fields that do not need the repository.
func ValidateRegistration(fullName string, birth time.Time, gender Gender, now time.Time) error {
	if !gender.IsValid() {
		return ErrInvalidGender
	}
	if utf8.RuneCountInString(strings.TrimSpace(fullName)) < 3 {
		return ErrNameTooShort
	}
	if birth.IsZero() || !birth.Before(now) {
		return ErrInvalidDateOfBirth
	}
	if AgeAt(birth, now) > maxAge {
		return ErrImplausibleAge
	}
	return nil
}

type CreatePatientCommand struct {
	CaregiverID       uuid.UUID
	FullName          string
	CPF               string
	DateOfBirth       time.Time
	Gender            Gender
	Address           string
	Phone             string
	EmergencyContact  string
	EmergencyPhone    string
	MedicalConditions string
	Allergies         string
	Observations      string
	CreatedBy         uuid.UUID
}

type UpdateMedicalInfoCommand struct {
	MedicalConditions *string
	Allergies         *string
	Observations      *string
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search      string // case-insensitive match on full name
	CaregiverID *uuid.UUID
	IsActive    *bool
	Page        int
	PageSize    int
	SortBy      string // "full_name" | "created_at"
	SortOrder   string // "asc" | "desc"
}

type PagedPatients struct {
	Patients   []*Patient `json:"patients"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
