package v1

import (
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PatientHandler struct {
	svc *service.PatientService
	now func() time.Time
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc, now: time.Now}
}

type createPatientRequest struct {
	CaregiverID       *uuid.UUID     `json:"caregiver_id"`
	FullName          string         `json:"full_name" binding:"required,min=3"`
	CPF               string         `json:"cpf" binding:"required,cpf"`
	DateOfBirth       string         `json:"date_of_birth" binding:"required"`
	Gender            patient.Gender `json:"gender" binding:"required,oneof=M F Other"`
	Address           string         `json:"address"`
	Phone             string         `json:"phone" binding:"omitempty,br_phone"`
	EmergencyContact  string         `json:"emergency_contact"`
	EmergencyPhone    string         `json:"emergency_phone" binding:"omitempty,br_phone"`
	MedicalConditions string         `json:"medical_conditions"`
	Allergies         string         `json:"allergies"`
	Observations      string         `json:"observations"`
}

type updateMedicalInfoRequest struct {
	MedicalConditions *string `json:"medical_conditions"`
	Allergies         *string `json:"allergies"`
	Observations      *string `json:"observations"`
}

// patientView adds the derived clinical flags to the stored record.
type patientView struct {
	*patient.Patient
	Age               int               `json:"age"`
	RiskLevel         patient.RiskLevel `json:"risk_level"`
	RequiresCompanion bool              `json:"requires_companion"`
}

func (h *PatientHandler) view(p *patient.Patient) patientView {
	now := h.now()
	return patientView{
		Patient:           p,
		Age:               p.Age(now),
		RiskLevel:         p.RiskLevel(now),
		RequiresCompanion: p.RequiresCompanion(now),
	}
}

func (h *PatientHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/medical-info", h.UpdateMedicalInfo)
	rg.DELETE("/:id", h.Deactivate)
}

func (h *PatientHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date_of_birth: expected YYYY-MM-DD")
		return
	}

	cmd := &patient.CreatePatientCommand{
		FullName:          req.FullName,
		CPF:               req.CPF,
		DateOfBirth:       dob,
		Gender:            req.Gender,
		Address:           req.Address,
		Phone:             req.Phone,
		EmergencyContact:  req.EmergencyContact,
		EmergencyPhone:    req.EmergencyPhone,
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Observations:      req.Observations,
	}
	if req.CaregiverID != nil {
		cmd.CaregiverID = *req.CaregiverID
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), cmd, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, h.view(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.view(p))
}

func (h *PatientHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	caregiverID, ok := parseQueryUUID(c, "caregiver_id")
	if !ok {
		return
	}

	q := &patient.ListPatientsQuery{
		Search:      c.Query("search"),
		CaregiverID: caregiverID,
		IsActive:    parseQueryBool(c, "is_active"),
		Page:        parseQueryInt(c, "page", 1),
		PageSize:    parseQueryInt(c, "page_size", 20),
		SortBy:      c.DefaultQuery("sort_by", "created_at"),
		SortOrder:   c.DefaultQuery("sort_order", "desc"),
	}

	paged, err := h.svc.ListPatients(c.Request.Context(), q, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *PatientHandler) UpdateMedicalInfo(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateMedicalInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdateMedicalInfo(c.Request.Context(), id, &patient.UpdateMedicalInfoCommand{
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Observations:      req.Observations,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.view(p))
}

func (h *PatientHandler) Deactivate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivatePatient(c.Request.Context(), id, actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
