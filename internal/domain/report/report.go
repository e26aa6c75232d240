package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePatients     Type = "PATIENTS"
	TypeInventory    Type = "INVENTORY"
	TypeFinancial    Type = "FINANCIAL"
	TypeAppointments Type = "APPOINTMENTS"
)

func (t Type) IsValid() bool {
	_, ok := typeLabels[t]
	return ok
}

var typeLabels = map[Type]string{
	TypePatients:     "Relatório de Pacientes",
	TypeInventory:    "Relatório de Estoque",
	TypeFinancial:    "Relatório Financeiro",
	TypeAppointments: "Relatório de Atendimentos",
}

// Label is the Portuguese display name shown to caregivers.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
	PeriodCustom  Period = "CUSTOM"
)

var periodLabels = map[Period]string{
	PeriodDaily:   "Diário",
	PeriodWeekly:  "Semanal",
	PeriodMonthly: "Mensal",
	PeriodYearly:  "Anual",
	PeriodCustom:  "Personalizado",
}

func (p Period) IsValid() bool {
	_, ok := periodLabels[p]
	return ok
}

func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

// DefaultRange ends at now. Daily starts at midnight; custom falls back to 30 days.
func (p Period) DefaultRange(now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodDaily:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), now
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), now
	case PeriodYearly:
		return now.AddDate(0, 0, -365), now
	}
	return now.AddDate(0, 0, -30), now
}

type Format string

const (
	FormatPDF   Format = "PDF"
	FormatExcel Format = "EXCEL"
	FormatCSV   Format = "CSV"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatExcel, FormatCSV:
		return true
	}
	return false
}

// Status transitions:
//
//	PENDING → PROCESSING → COMPLETED
//	PENDING | PROCESSING → FAILED → PENDING
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

const maxRange = 5 * 365 * 24 * time.Hour

// Summary is the computed content of a report.
type Summary struct {
	TotalPatients      int64            `json:"total_patients"`
	NewPatients        int64            `json:"new_patients"`
	DischargedPatients int64            `json:"discharged_patients"`
	ActivePatients     int64            `json:"active_patients"`
	TotalRevenue       float64          `json:"total_revenue"`
	TotalExpenses      float64          `json:"total_expenses"`
	InventoryValue     float64          `json:"inventory_value"`
	LowStockItems      int64            `json:"low_stock_items"`
	Appointments       map[string]int64 `json:"appointments,omitempty"`
}

type Report struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	Type         Type      `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	Title        string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Period       Period    `gorm:"column:period;type:varchar(20);not null" json:"period"`
	StartDate    time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Format       Format    `gorm:"column:format;type:varchar(10);not null" json:"format"`
	GeneratedBy  uuid.UUID `gorm:"column:generated_by;type:uuid;not null;index" json:"generated_by"`
	Status       Status    `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	DownloadURL  string    `gorm:"column:download_url;type:varchar(255)" json:"download_url,omitempty"`
	Data         *Summary  `gorm:"column:data;serializer:json" json:"data,omitempty"`
	ErrorMessage string    `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
}

func (Report) TableName() string {
	return "reporting.reports"
}

// Validate returns a message per problem with the requested range.
func Validate(cmd *CreateReportCommand, now time.Time) []string {
	var errs []string
	if strings.TrimSpace(cmd.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !cmd.Type.IsValid() {
		errs = append(errs, "type is invalid")
	}
	if !cmd.Period.IsValid() {
		errs = append(errs, "period is invalid")
	}
	if !cmd.Format.IsValid() {
		errs = append(errs, "format is invalid")
	}
	if cmd.StartDate.After(cmd.EndDate) {
		errs = append(errs, "start_date must be before end_date")
	}
	if cmd.EndDate.After(now) {
		errs = append(errs, "end_date cannot be in the future")
	}
	if cmd.EndDate.Sub(cmd.StartDate) > maxRange {
		errs = append(errs, "date range too long: maximum of 5 years")
	}
	return errs
}

func New(cmd *CreateReportCommand) *Report {
	return &Report{
		ID:          uuid.New(),
		Type:        cmd.Type,
		Title:       strings.TrimSpace(cmd.Title),
		Period:      cmd.Period,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		Format:      cmd.Format,
		GeneratedBy: cmd.GeneratedBy,
		Status:      StatusPending,
	}
}

func (r *Report) StartProcessing() error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusProcessing
	return nil
}

func (r *Report) Complete(downloadURL string, data *Summary, now time.Time) error {
	if r.Status != StatusProcessing {
		return ErrNotProcessing
	}
	r.Status = StatusCompleted
	r.DownloadURL = downloadURL
	r.Data = data
	r.CompletedAt = &now
	return nil
}

func (r *Report) Fail(msg string) error {
	if r.Status != StatusPending && r.Status != StatusProcessing {
		return ErrCannotFail
	}
	r.Status = StatusFailed
	r.ErrorMessage = msg
	return nil
}

func (r *Report) Retry() error {
	if r.Status != StatusFailed {
		return ErrNotFailed
	}
	r.Status = StatusPending
	r.ErrorMessage = ""
	return nil
}

func (r *Report) CanRegenerate() error {
	if r.Status == StatusProcessing {
		return ErrProcessing
	}
	return nil
}

// EstimatedGenerationTime is a per-type base plus one second per 30 days of range.
func (r *Report) EstimatedGenerationTime() time.Duration {
	base := map[Type]int{
		TypePatients:     5,
		TypeInventory:    3,
		TypeFinancial:    10,
		TypeAppointments: 7,
	}[r.Type]
	if base == 0 {
		base = 5
	}
	days := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	return time.Duration(base+days/30) * time.Second
}

type CreateReportCommand struct {
	Type        Type
	Title       string
	Period      Period
	StartDate   time.Time
	EndDate     time.Time
	Format      Format
	GeneratedBy uuid.UUID
}

type ListReportsQuery struct {
	GeneratedBy *uuid.UUID
	Type        *Type
	Status      *Status
	Page        int
	PageSize    int
}

type PagedReports struct {
	Reports    []*Report `json:"reports"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
