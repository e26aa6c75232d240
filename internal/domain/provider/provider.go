package provider

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Type string

const (
	TypeHospital          Type = "HOSPITAL"
	TypeClinica           Type = "CLINICA"
	TypeLaboratorio       Type = "LABORATORIO"
	TypeCooperativa       Type = "COOPERATIVA"
	TypeConsultorio       Type = "CONSULTORIO"
	TypeCentroDiagnostico Type = "CENTRO_DIAGNOSTICO"
	TypeHomeCare          Type = "HOME_CARE"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeHospital, TypeClinica, TypeLaboratorio, TypeCooperativa,
		TypeConsultorio, TypeCentroDiagnostico, TypeHomeCare:
		return true
	}
	return false
}

type Status string

const (
	StatusActive          Status = "ACTIVE"
	StatusInactive        Status = "INACTIVE"
	StatusSuspended       Status = "SUSPENDED"
	StatusPendingApproval Status = "PENDING_APPROVAL"
)

type Specialty string

const (
	SpecialtyCardiologia  Specialty = "CARDIOLOGIA"
	SpecialtyOrtopedia    Specialty = "ORTOPEDIA"
	SpecialtyPediatria    Specialty = "PEDIATRIA"
	SpecialtyGinecologia  Specialty = "GINECOLOGIA"
	SpecialtyNeurologia   Specialty = "NEUROLOGIA"
	SpecialtyPsiquiatria  Specialty = "PSIQUIATRIA"
	SpecialtyDermatologia Specialty = "DERMATOLOGIA"
	SpecialtyOftalmologia Specialty = "OFTALMOLOGIA"
	SpecialtyOncologia    Specialty = "ONCOLOGIA"
	SpecialtyGeral        Specialty = "GERAL"
)

func (s Specialty) IsValid() bool {
	switch s {
	case SpecialtyCardiologia, SpecialtyOrtopedia, SpecialtyPediatria, SpecialtyGinecologia,
		SpecialtyNeurologia, SpecialtyPsiquiatria, SpecialtyDermatologia, SpecialtyOftalmologia,
		SpecialtyOncologia, SpecialtyGeral:
		return true
	}
	return false
}

type CredentialType string

const (
	CredentialCRM    CredentialType = "CRM"
	CredentialCNES   CredentialType = "CNES"
	CredentialCNPJ   CredentialType = "CNPJ"
	CredentialCPF    CredentialType = "CPF"
	CredentialOutros CredentialType = "OUTROS"
)

type Credential struct {
	Type           CredentialType `json:"type"`
	Number         string         `json:"number"`
	State          string         `json:"state,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
}

type Service struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration,omitempty"` // minutes
	Active      bool      `json:"active"`
}

// WorkingHours holds a free-form range per weekday, e.g. "08:00-18:00". Empty means closed.
type WorkingHours struct {
	Monday    string `json:"monday,omitempty"`
	Tuesday   string `json:"tuesday,omitempty"`
	Wednesday string `json:"wednesday,omitempty"`
	Thursday  string `json:"thursday,omitempty"`
	Friday    string `json:"friday,omitempty"`
	Saturday  string `json:"saturday,omitempty"`
	Sunday    string `json:"sunday,omitempty"`
}

func (w WorkingHours) WorkingDays() int {
	n := 0
	for _, d := range []string{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday} {
		if strings.TrimSpace(d) != "" {
			n++
		}
	}
	return n
}

// Provider is a healthcare service provider: hospital, clinic, lab, home care and so on.
type Provider struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name      string            `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	TradeName string            `gorm:"column:trade_name;type:varchar(255)" json:"trade_name"`
	Type      Type              `gorm:"column:type;type:varchar(30);not null;index" json:"type"`
	Status    Status            `gorm:"column:status;type:varchar(30);not null;index" json:"status"`
	Document  document.Document `gorm:"column:document;type:varchar(14);not null;uniqueIndex" json:"document"`

	Credentials      []Credential    `gorm:"column:credentials;serializer:json" json:"credentials"`
	Specialties      []Specialty     `gorm:"column:specialties;serializer:json" json:"specialties"`
	Phone            string          `gorm:"column:phone;type:varchar(11)" json:"phone"`
	Email            string          `gorm:"column:email;type:varchar(255)" json:"email"`
	Address          contact.Address `gorm:"column:address;serializer:json" json:"address"`
	Services         []Service       `gorm:"column:services;serializer:json" json:"services"`
	AcceptedInsurers []uuid.UUID     `gorm:"column:accepted_insurers;serializer:json" json:"accepted_insurers"`
	Website          string          `gorm:"column:website;type:varchar(255)" json:"website,omitempty"`
	WorkingHours     *WorkingHours   `gorm:"column:working_hours;serializer:json" json:"working_hours,omitempty"`
	Logo             string          `gorm:"column:logo;type:varchar(255)" json:"logo,omitempty"`
	Capacity         *int            `gorm:"column:capacity" json:"capacity,omitempty"`
	HasEmergency     bool            `gorm:"column:has_emergency;not null;default:false" json:"has_emergency"`
	Rating           *float64        `gorm:"column:rating" json:"rating,omitempty"`
	Notes            string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Provider) TableName() string {
	return "network.providers"
}

func (p *Provider) Approve() error {
	if p.Status != StatusPendingApproval {
		return ErrNotPending
	}
	p.Status = StatusActive
	return nil
}

func (p *Provider) Activate() { p.Status = StatusActive }

func (p *Provider) Suspend() { p.Status = StatusSuspended }

func (p *Provider) Deactivate() error {
	if p.Status == StatusPendingApproval {
		return ErrPendingDeactivation
	}
	p.Status = StatusInactive
	return nil
}

func (p *Provider) AddService(s Service) error {
	if p.Status != StatusActive {
		return ErrNotActive
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	p.Services = append(p.Services, s)
	return nil
}

func (p *Provider) RemoveService(id uuid.UUID) error {
	for i, s := range p.Services {
		if s.ID == id {
			p.Services = slices.Delete(p.Services, i, i+1)
			return nil
		}
	}
	return ErrServiceNotFound
}

func (p *Provider) AcceptsInsurer(insurerID uuid.UUID) bool {
	return slices.Contains(p.AcceptedInsurers, insurerID)
}

// AddInsurer is a no-op when the insurer is already accepted.
func (p *Provider) AddInsurer(insurerID uuid.UUID) {
	if !p.AcceptsInsurer(insurerID) {
		p.AcceptedInsurers = append(p.AcceptedInsurers, insurerID)
	}
}

func (p *Provider) RemoveInsurer(insurerID uuid.UUID) {
	p.AcceptedInsurers = slices.DeleteFunc(p.AcceptedInsurers, func(id uuid.UUID) bool {
		return id == insurerID
	})
}

// Availability is the share of weekdays with working hours, from 0 to 100.
func (p *Provider) Availability() float64 {
	if p.WorkingHours == nil {
		return 0
	}
	return float64(p.WorkingHours.WorkingDays()) / 7 * 100
}

// HasValidCredentials requires at least one credential and none expired at now.
func (p *Provider) HasValidCredentials(now time.Time) bool {
	if len(p.Credentials) == 0 {
		return false
	}
	for _, c := range p.Credentials {
		if c.ExpirationDate != nil && c.ExpirationDate.Before(now) {
			return false
		}
	}
	return true
}

func (p *Provider) SetRating(r float64) error {
	if r < 0 || r > 5 {
		return ErrInvalidRating
	}
	p.Rating = &r
	return nil
}

// Apply overwrites the non-nil fields of cmd.
func (p *Provider) Apply(cmd *UpdateProviderCommand) error {
	if cmd.Rating != nil {
		if err := p.SetRating(*cmd.Rating); err != nil {
			return err
		}
	}
	if cmd.Name != nil {
		p.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.TradeName != nil {
		p.TradeName = *cmd.TradeName
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		p.Email = *cmd.Email
	}
	if cmd.Website != nil {
		p.Website = *cmd.Website
	}
	if cmd.Specialties != nil {
		p.Specialties = *cmd.Specialties
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.WorkingHours != nil {
		p.WorkingHours = cmd.WorkingHours
	}
	if cmd.Capacity != nil {
		p.Capacity = cmd.Capacity
	}
	if cmd.HasEmergency != nil {
		p.HasEmergency = *cmd.HasEmergency
	}
	if cmd.Notes != nil {
		p.Notes = *cmd.Notes
	}
	return nil
}

func ValidateRegistration(cmd *CreateProviderCommand) []string {
	var errs []string

	if utf8.RuneCountInString(strings.TrimSpace(cmd.Name)) < 3 {
		errs = append(errs, "name must have at least 3 characters")
	}
	if !cmd.Type.IsValid() {
		errs = append(errs, "type is invalid")
	}
	if _, err := document.Parse(cmd.Document); err != nil {
		errs = append(errs, "document must be a valid CPF or CNPJ")
	}
	if !contact.IsValidEmail(cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if !contact.IsValidPhone(cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}
	if len(cmd.Specialties) == 0 {
		errs = append(errs, "at least one specialty is required")
	}
	for _, s := range cmd.Specialties {
		if !s.IsValid() {
			errs = append(errs, "specialty "+string(s)+" is invalid")
		}
	}
	if len(cmd.Credentials) == 0 {
		errs = append(errs, "at least one credential is required")
	}

	return errs
}

type CreateProviderCommand struct {
	Name             string
	TradeName        string
	Type             Type
	Document         string
	Credentials      []Credential
	Specialties      []Specialty
	Phone            string
	Email            string
	Address          contact.Address
	Website          string
	WorkingHours     *WorkingHours
	Services         []Service
	AcceptedInsurers []uuid.UUID
	Logo             string
	Capacity         *int
	HasEmergency     bool
	Notes            string
}

type UpdateProviderCommand struct {
	Name         *string
	TradeName    *string
	Phone        *string
	Email        *string
	Website      *string
	Specialties  *[]Specialty
	Address      *contact.Address
	WorkingHours *WorkingHours
	Capacity     *int
	HasEmergency *bool
	Rating       *float64
	Notes        *string
}

type ListProvidersQuery struct {
	Type      *Type
	Status    *Status
	Specialty *Specialty
	Page      int
	PageSize  int
}

type PagedProviders struct {
	Providers  []*Provider `json:"providers"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
