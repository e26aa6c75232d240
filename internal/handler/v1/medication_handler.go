package v1

import (
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicationHandler struct {
	svc *service.MedicationService
	now func() time.Time
}

func NewMedicationHandler(svc *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{svc: svc, now: time.Now}
}

type createMedicationRequest struct {
	Name          string               `json:"name" binding:"required,min=2"`
	Dosage        string               `json:"dosage" binding:"required"`
	Frequency     medication.Frequency `json:"frequency" binding:"required,oneof=daily twice_daily three_times_daily as_needed"`
	ScheduleTimes []string             `json:"schedule_times" binding:"required,min=1,dive,hhmm"`
	StartDate     string               `json:"start_date" binding:"required"`
	EndDate       string               `json:"end_date"`
	Instructions  string               `json:"instructions"`
}

type updateScheduleRequest struct {
	ScheduleTimes []string `json:"schedule_times" binding:"required,min=1,dive,hhmm"`
}

type nextDoseResponse struct {
	MedicationID string     `json:"medication_id"`
	NextDose     *time.Time `json:"next_dose"`
}

// RegisterPatientRoutes mounts the routes nested under /patients/:id.
func (h *MedicationHandler) RegisterPatientRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/medications", h.Create)
	rg.GET("/:id/medications", h.ListByPatient)
	rg.GET("/:id/schedule", h.DailySchedule)
}

func (h *MedicationHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/schedule", h.UpdateSchedule)
	rg.POST("/:id/deactivate", h.Deactivate)
	rg.GET("/:id/next-dose", h.NextDose)
}

func (h *MedicationHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req createMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	times, err := medication.ParseTimesOfDay(req.ScheduleTimes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start_date: expected YYYY-MM-DD")
		return
	}
	var end *time.Time
	if req.EndDate != "" {
		t, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid end_date: expected YYYY-MM-DD")
			return
		}
		end = &t
	}

	created, err := h.svc.CreateMedication(c.Request.Context(), &medication.CreateMedicationCommand{
		PatientID:     patientID,
		Name:          req.Name,
		Dosage:        req.Dosage,
		Frequency:     req.Frequency,
		ScheduleTimes: times,
		StartDate:     start,
		EndDate:       end,
		Instructions:  req.Instructions,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *MedicationHandler) ListByPatient(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	activeOnly := true
	if v := parseQueryBool(c, "active_only"); v != nil {
		activeOnly = *v
	}

	meds, err := h.svc.ListPatientMedications(c.Request.Context(), patientID, activeOnly, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, meds)
}

func (h *MedicationHandler) DailySchedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	date, ok := parseQueryDate(c, "date")
	if !ok {
		return
	}
	day := medication.DateOf(h.now())
	if date != nil {
		day = *date
	}

	doses, err := h.svc.DailySchedule(c.Request.Context(), patientID, day, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doses)
}

func (h *MedicationHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetMedication(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *MedicationHandler) UpdateSchedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	times, err := medication.ParseTimesOfDay(req.ScheduleTimes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	m, err := h.svc.UpdateSchedule(c.Request.Context(), id, times, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *MedicationHandler) Deactivate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.DeactivateMedication(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *MedicationHandler) NextDose(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	next, err := h.svc.NextDose(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := nextDoseResponse{MedicationID: id.String()}
	if !next.IsZero() {
		resp.NextDose = &next
	}
	respondOK(c, resp)
}
