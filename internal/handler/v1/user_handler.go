package v1

import (
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	FullName  string      `json:"full_name" binding:"required,min=3"`
	Role      domain.Role `json:"role" binding:"required,oneof=admin caregiver family"`
	PatientID *uuid.UUID  `json:"patient_id"`
}

func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/me", h.Me)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/activate", h.Activate)
	rg.POST("/:id/deactivate", h.Deactivate)
}

func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), &domain.CreateUserCommand{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      req.Role,
		PatientID: req.PatientID,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, u)
}

func (h *UserHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	q := &domain.ListUsersQuery{
		Search:   c.Query("search"),
		IsActive: parseQueryBool(c, "is_active"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		q.Role = &role
	}

	users, err := h.svc.ListUsers(c.Request.Context(), q, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	u, err := h.svc.GetUser(c.Request.Context(), actor.UserID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}

func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	u, err := h.svc.GetUser(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}

func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	set := h.svc.DeactivateUser
	if active {
		set = h.svc.ActivateUser
	}
	u, err := set(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}
