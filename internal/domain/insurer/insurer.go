package insurer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Type string

const (
	TypeMedicinaGrupo Type = "MEDICINA_GRUPO"
	TypeCooperativa   Type = "COOPERATIVA"
	TypeAutogestao    Type = "AUTOGESTAO"
	TypeFilantropia   Type = "FILANTROPIA"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeMedicinaGrupo, TypeCooperativa, TypeAutogestao, TypeFilantropia:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

type PlanType string

const (
	PlanIndividual     PlanType = "INDIVIDUAL"
	PlanEmpresarial    PlanType = "EMPRESARIAL"
	PlanColetivoAdesao PlanType = "COLETIVO_ADESAO"
)

func (t PlanType) IsValid() bool {
	switch t {
	case PlanIndividual, PlanEmpresarial, PlanColetivoAdesao:
		return true
	}
	return false
}

type Plan struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Type         PlanType  `json:"type"`
	Coverage     []string  `json:"coverage"`
	Active       bool      `json:"active"`
	MonthlyPrice *float64  `json:"monthly_price,omitempty"`
}

// Insurer is a health insurance operator registered with ANS.
type Insurer struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name               string            `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	TradeName          string            `gorm:"column:trade_name;type:varchar(255)" json:"trade_name"`
	CNPJ               document.Document `gorm:"column:cnpj;type:varchar(14);not null;uniqueIndex" json:"cnpj"`
	RegistrationNumber string            `gorm:"column:registration_number;type:varchar(6);not null" json:"registration_number"`
	Type               Type              `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Status             Status            `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Phone              string            `gorm:"column:phone;type:varchar(11)" json:"phone"`
	Email              string            `gorm:"column:email;type:varchar(255)" json:"email"`
	Address            contact.Address   `gorm:"column:address;serializer:json" json:"address"`
	Plans              []Plan            `gorm:"column:plans;serializer:json" json:"plans"`
	Website            string            `gorm:"column:website;type:varchar(255)" json:"website,omitempty"`
	Logo               string            `gorm:"column:logo;type:varchar(255)" json:"logo,omitempty"`
	ContractStartDate  *time.Time        `gorm:"column:contract_start_date" json:"contract_start_date,omitempty"`
	ContractEndDate    *time.Time        `gorm:"column:contract_end_date" json:"contract_end_date,omitempty"`
	Notes              string            `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Insurer) TableName() string {
	return "network.insurers"
}

func (i *Insurer) HasActivePlans() bool {
	for _, p := range i.Plans {
		if p.Active {
			return true
		}
	}
	return false
}

func (i *Insurer) CanBeDeactivated() error {
	if i.HasActivePlans() {
		return ErrHasActivePlans
	}
	return nil
}

func (i *Insurer) Activate() { i.Status = StatusActive }

func (i *Insurer) Suspend() { i.Status = StatusSuspended }

func (i *Insurer) Deactivate() error {
	if err := i.CanBeDeactivated(); err != nil {
		return err
	}
	i.Status = StatusInactive
	return nil
}

func (i *Insurer) AddPlan(p Plan) error {
	if i.Status != StatusActive {
		return ErrNotActive
	}
	if !p.Type.IsValid() {
		return ErrInvalidPlanType
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	i.Plans = append(i.Plans, p)
	return nil
}

func (i *Insurer) RemovePlan(planID uuid.UUID) error {
	for idx, p := range i.Plans {
		if p.ID == planID {
			i.Plans = append(i.Plans[:idx], i.Plans[idx+1:]...)
			return nil
		}
	}
	return ErrPlanNotFound
}

// Apply overwrites the non-nil fields of cmd.
func (i *Insurer) Apply(cmd *UpdateInsurerCommand) {
	if cmd.Name != nil {
		i.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.TradeName != nil {
		i.TradeName = *cmd.TradeName
	}
	if cmd.Phone != nil {
		i.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		i.Email = *cmd.Email
	}
	if cmd.Address != nil {
		i.Address = *cmd.Address
	}
	if cmd.Website != nil {
		i.Website = *cmd.Website
	}
	if cmd.Logo != nil {
		i.Logo = *cmd.Logo
	}
	if cmd.ContractStartDate != nil {
		i.ContractStartDate = cmd.ContractStartDate
	}
	if cmd.ContractEndDate != nil {
		i.ContractEndDate = cmd.ContractEndDate
	}
	if cmd.Notes != nil {
		i.Notes = *cmd.Notes
	}
}

// ValidateRegistration returns a message per invalid field; nil means valid.
func ValidateRegistration(cmd *CreateInsurerCommand) []string {
	var errs []string

	if utf8.RuneCountInString(strings.TrimSpace(cmd.Name)) < 3 {
		errs = append(errs, "name must have at least 3 characters")
	}
	if !document.IsValidCNPJ(digits(cmd.CNPJ)) {
		errs = append(errs, "cnpj is invalid")
	}
	if reg := digits(cmd.RegistrationNumber); len(reg) != 6 {
		errs = append(errs, "registration_number must have 6 digits")
	}
	if !cmd.Type.IsValid() {
		errs = append(errs, "type is invalid")
	}
	if !contact.IsValidEmail(cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if !contact.IsValidPhone(cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}
	for _, f := range cmd.Address.Missing() {
		errs = append(errs, "address."+f+" is required")
	}
	if cmd.ContractStartDate != nil && cmd.ContractEndDate != nil &&
		cmd.ContractEndDate.Before(*cmd.ContractStartDate) {
		errs = append(errs, "contract_end_date cannot be before contract_start_date")
	}

	return errs
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type CreateInsurerCommand struct {
	Name               string
	TradeName          string
	CNPJ               string
	RegistrationNumber string
	Type               Type
	Phone              string
	Email              string
	Address            contact.Address
	Plans              []Plan
	Website            string
	Logo               string
	ContractStartDate  *time.Time
	ContractEndDate    *time.Time
	Notes              string
}

type UpdateInsurerCommand struct {
	Name              *string
	TradeName         *string
	Phone             *string
	Email             *string
	Address           *contact.Address
	Website           *string
	Logo              *string
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
	Notes             *string
}

type ListInsurersQuery struct {
	Search   string
	Status   *Status
	Type     *Type
	Page     int
	PageSize int
}

type PagedInsurers struct {
	Insurers   []*Insurer `json:"insurers"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
