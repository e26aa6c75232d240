package v1

import (
	"context"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProviderHandler struct {
	svc *service.ProviderService
}

func NewProviderHandler(svc *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{svc: svc}
}

type createProviderRequest struct {
	Name             string                 `json:"name" binding:"required,min=3"`
	TradeName        string                 `json:"trade_name"`
	Type             provider.Type          `json:"type" binding:"required"`
	Document         string                 `json:"document" binding:"required"`
	Credentials      []provider.Credential  `json:"credentials" binding:"required,min=1"`
	Specialties      []provider.Specialty   `json:"specialties" binding:"required,min=1"`
	Phone            string                 `json:"phone" binding:"required,br_phone"`
	Email            string                 `json:"email" binding:"required,email"`
	Address          contact.Address        `json:"address"`
	Website          string                 `json:"website"`
	WorkingHours     *provider.WorkingHours `json:"working_hours"`
	Services         []provider.Service     `json:"services"`
	AcceptedInsurers []uuid.UUID            `json:"accepted_insurers"`
	Logo             string                 `json:"logo"`
	Capacity         *int                   `json:"capacity" binding:"omitempty,min=0"`
	HasEmergency     bool                   `json:"has_emergency"`
	Notes            string                 `json:"notes"`
}

type updateProviderRequest struct {
	Name         *string                `json:"name" binding:"omitempty,min=3"`
	TradeName    *string                `json:"trade_name"`
	Phone        *string                `json:"phone" binding:"omitempty,br_phone"`
	Email        *string                `json:"email" binding:"omitempty,email"`
	Website      *string                `json:"website"`
	Specialties  *[]provider.Specialty  `json:"specialties"`
	Address      *contact.Address       `json:"address"`
	WorkingHours *provider.WorkingHours `json:"working_hours"`
	Capacity     *int                   `json:"capacity" binding:"omitempty,min=0"`
	HasEmergency *bool                  `json:"has_emergency"`
	Rating       *float64               `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes        *string                `json:"notes"`
}

type addServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Description string  `json:"description"`
	Duration    int     `json:"duration" binding:"omitempty,min=1"`
}

// providerView adds the derived availability share.
type providerView struct {
	*provider.Provider
	Availability float64 `json:"availability"`
}

func viewProvider(p *provider.Provider) providerView {
	return providerView{Provider: p, Availability: p.Availability()}
}

func (h *ProviderHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/activate", h.Activate)
	rg.POST("/:id/suspend", h.Suspend)
	rg.DELETE("/:id", h.Deactivate)
	rg.POST("/:id/services", h.AddService)
	rg.DELETE("/:id/services/:serviceId", h.RemoveService)
	rg.PUT("/:id/insurers/:insurerId", h.AddInsurer)
	rg.DELETE("/:id/insurers/:insurerId", h.RemoveInsurer)
}

func (h *ProviderHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createProviderRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreateProvider(c.Request.Context(), &provider.CreateProviderCommand{
		Name:             req.Name,
		TradeName:        req.TradeName,
		Type:             req.Type,
		Document:         req.Document,
		Credentials:      req.Credentials,
		Specialties:      req.Specialties,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		Website:          req.Website,
		WorkingHours:     req.WorkingHours,
		Services:         req.Services,
		AcceptedInsurers: req.AcceptedInsurers,
		Logo:             req.Logo,
		Capacity:         req.Capacity,
		HasEmergency:     req.HasEmergency,
		Notes:            req.Notes,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewProvider(p))
}

func (h *ProviderHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewProvider(p))
}

func (h *ProviderHandler) List(c *gin.Context) {
	q := &provider.ListProvidersQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("type"); raw != "" {
		t := provider.Type(raw)
		if !t.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid type")
			return
		}
		q.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		st := provider.Status(raw)
		q.Status = &st
	}
	if raw := c.Query("specialty"); raw != "" {
		sp := provider.Specialty(raw)
		if !sp.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid specialty")
			return
		}
		q.Specialty = &sp
	}

	paged, err := h.svc.ListProviders(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateProviderRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdateProvider(c.Request.Context(), id, &provider.UpdateProviderCommand{
		Name:         req.Name,
		TradeName:    req.TradeName,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		Specialties:  req.Specialties,
		Address:      req.Address,
		WorkingHours: req.WorkingHours,
		Capacity:     req.Capacity,
		HasEmergency: req.HasEmergency,
		Rating:       req.Rating,
		Notes:        req.Notes,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewProvider(p))
}

func (h *ProviderHandler) Approve(c *gin.Context) { h.status(c, h.svc.ApproveProvider) }

func (h *ProviderHandler) Activate(c *gin.Context) { h.status(c, h.svc.ActivateProvider) }

func (h *ProviderHandler) Suspend(c *gin.Context) { h.status(c, h.svc.SuspendProvider) }

func (h *ProviderHandler) Deactivate(c *gin.Context) { h.status(c, h.svc.DeactivateProvider) }

func (h *ProviderHandler) status(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID, actor service.Actor) (*provider.Provider, error),
) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := apply(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewProvider(p))
}

func (h *ProviderHandler) AddService(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req addServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.AddService(c.Request.Context(), id, provider.Service{
		Name:        req.Name,
		Code:        req.Code,
		Price:       req.Price,
		Description: req.Description,
		Duration:    req.Duration,
		Active:      true,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewProvider(p))
}

func (h *ProviderHandler) RemoveService(c *gin.Context) {
	h.withChild(c, "serviceId", h.svc.RemoveService)
}

func (h *ProviderHandler) AddInsurer(c *gin.Context) {
	h.withChild(c, "insurerId", h.svc.AddInsurer)
}

func (h *ProviderHandler) RemoveInsurer(c *gin.Context) {
	h.withChild(c, "insurerId", h.svc.RemoveInsurer)
}

func (h *ProviderHandler) withChild(
	c *gin.Context,
	param string,
	apply func(ctx context.Context, id, childID uuid.UUID, actor service.Actor) (*provider.Provider, error),
) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	childID, ok := parseUUID(c, param)
	if !ok {
		return
	}

	p, err := apply(c.Request.Context(), id, childID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewProvider(p))
}
