package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	PatientID    uuid.UUID  `json:"patient_id" binding:"required"`
	ProviderID   *uuid.UUID `json:"provider_id"`
	Title        string     `json:"title" binding:"required,min=3"`
	Description  string     `json:"description"`
	ScheduledAt  time.Time  `json:"scheduled_at" binding:"required"`
	DurationMins int        `json:"duration_minutes" binding:"required,min=1"`
	Location     string     `json:"location" binding:"required"`
	DoctorName   string     `json:"doctor_name"`
	Specialty    string     `json:"specialty"`
}

type rescheduleRequest struct {
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	DurationMins int       `json:"duration_minutes" binding:"omitempty,min=1"`
}

func (h *AppointmentHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
	rg.PUT("/:id/schedule", h.Reschedule)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.ScheduleAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID:    req.PatientID,
		ProviderID:   req.ProviderID,
		Title:        req.Title,
		Description:  req.Description,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		Location:     req.Location,
		DoctorName:   req.DoctorName,
		Specialty:    req.Specialty,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	patientID, ok := parseQueryUUID(c, "patient_id")
	if !ok {
		return
	}
	from, ok := parseQueryDate(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseQueryDate(c, "date_to")
	if !ok {
		return
	}
	if to != nil {
		// inclusive of the whole last day
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	q := &appointment.ListAppointmentsQuery{
		PatientID: patientID,
		DateFrom:  from,
		DateTo:    to,
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.AppointmentStatus(raw)
		if !st.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		q.Status = &st
	}

	paged, err := h.svc.ListAppointments(c.Request.Context(), q, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAppointment(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.CompleteAppointment)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.CancelAppointment)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID, actor service.Actor) (*appointment.Appointment, error),
) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := apply(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.RescheduleAppointment(c.Request.Context(), id, &appointment.RescheduleAppointmentCommand{
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}
