package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InsurerHandler struct {
	svc *service.InsurerService
}

func NewInsurerHandler(svc *service.InsurerService) *InsurerHandler {
	return &InsurerHandler{svc: svc}
}

type createInsurerRequest struct {
	Name               string          `json:"name" binding:"required,min=3"`
	TradeName          string          `json:"trade_name"`
	CNPJ               string          `json:"cnpj" binding:"required,cnpj"`
	RegistrationNumber string          `json:"registration_number" binding:"required"`
	Type               insurer.Type    `json:"type" binding:"required"`
	Phone              string          `json:"phone" binding:"required,br_phone"`
	Email              string          `json:"email" binding:"required,email"`
	Address            contact.Address `json:"address"`
	Plans              []insurer.Plan  `json:"plans"`
	Website            string          `json:"website"`
	Logo               string          `json:"logo"`
	ContractStartDate  *time.Time      `json:"contract_start_date"`
	ContractEndDate    *time.Time      `json:"contract_end_date"`
	Notes              string          `json:"notes"`
}

type updateInsurerRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=3"`
	TradeName         *string          `json:"trade_name"`
	Phone             *string          `json:"phone" binding:"omitempty,br_phone"`
	Email             *string          `json:"email" binding:"omitempty,email"`
	Address           *contact.Address `json:"address"`
	Website           *string          `json:"website"`
	Logo              *string          `json:"logo"`
	ContractStartDate *time.Time       `json:"contract_start_date"`
	ContractEndDate   *time.Time       `json:"contract_end_date"`
	Notes             *string          `json:"notes"`
}

type addPlanRequest struct {
	Name         string           `json:"name" binding:"required"`
	Code         string           `json:"code" binding:"required"`
	Type         insurer.PlanType `json:"type" binding:"required"`
	Coverage     []string         `json:"coverage"`
	MonthlyPrice *float64         `json:"monthly_price" binding:"omitempty,min=0"`
}

func (h *InsurerHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Deactivate)
	rg.POST("/:id/activate", h.Activate)
	rg.POST("/:id/suspend", h.Suspend)
	rg.POST("/:id/plans", h.AddPlan)
	rg.DELETE("/:id/plans/:planId", h.RemovePlan)
}

func (h *InsurerHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createInsurerRequest
	if !bindJSON(c, &req) {
		return
	}

	i, err := h.svc.CreateInsurer(c.Request.Context(), &insurer.CreateInsurerCommand{
		Name:               req.Name,
		TradeName:          req.TradeName,
		CNPJ:               req.CNPJ,
		RegistrationNumber: req.RegistrationNumber,
		Type:               req.Type,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		Plans:              req.Plans,
		Website:            req.Website,
		Logo:               req.Logo,
		ContractStartDate:  req.ContractStartDate,
		ContractEndDate:    req.ContractEndDate,
		Notes:              req.Notes,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, i)
}

func (h *InsurerHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	i, err := h.svc.GetInsurer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, i)
}

func (h *InsurerHandler) List(c *gin.Context) {
	q := &insurer.ListInsurersQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := insurer.Status(raw)
		q.Status = &st
	}
	if raw := c.Query("type"); raw != "" {
		t := insurer.Type(raw)
		if !t.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid type")
			return
		}
		q.Type = &t
	}

	paged, err := h.svc.ListInsurers(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *InsurerHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateInsurerRequest
	if !bindJSON(c, &req) {
		return
	}

	i, err := h.svc.UpdateInsurer(c.Request.Context(), id, &insurer.UpdateInsurerCommand{
		Name:              req.Name,
		TradeName:         req.TradeName,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		Website:           req.Website,
		Logo:              req.Logo,
		ContractStartDate: req.ContractStartDate,
		ContractEndDate:   req.ContractEndDate,
		Notes:             req.Notes,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, i)
}

func (h *InsurerHandler) Deactivate(c *gin.Context) { h.status(c, h.svc.DeactivateInsurer) }

func (h *InsurerHandler) Activate(c *gin.Context) { h.status(c, h.svc.ActivateInsurer) }

func (h *InsurerHandler) Suspend(c *gin.Context) { h.status(c, h.svc.SuspendInsurer) }

func (h *InsurerHandler) status(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID, actor service.Actor) (*insurer.Insurer, error),
) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	i, err := apply(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, i)
}

func (h *InsurerHandler) AddPlan(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req addPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	i, err := h.svc.AddPlan(c.Request.Context(), id, insurer.Plan{
		Name:         req.Name,
		Code:         req.Code,
		Type:         req.Type,
		Coverage:     req.Coverage,
		Active:       true,
		MonthlyPrice: req.MonthlyPrice,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, i)
}

func (h *InsurerHandler) RemovePlan(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	planID, ok := parseUUID(c, "planId")
	if !ok {
		return
	}

	i, err := h.svc.RemovePlan(c.Request.Context(), id, planID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, i)
}
