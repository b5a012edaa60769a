package handler

import (
	"context"
	"net/http"

	"github.com/RigelNana/edubridge/middleware"
	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	svc service.UserService
	log logrus.FieldLogger
}

func NewUserHandler(svc service.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type skillsRequest struct {
	Skills []string `json:"skills"`
}

// CreateUser POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Create(c.Request.Context(), req.Name, req.Email, models.Role(req.Role))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, user)
}

// ListUsers GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, users)
}

// GetUser GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, profile)
}

// Me GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	profile, err := h.svc.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, profile)
}

// ReplaceSkills PATCH /users/:id/skills
func (h *UserHandler) ReplaceSkills(c *gin.Context) {
	h.changeSkills(c, h.svc.ReplaceSkills)
}

// AddSkills POST /users/:id/skills
func (h *UserHandler) AddSkills(c *gin.Context) {
	h.changeSkills(c, h.svc.AddSkills)
}

// RemoveSkills DELETE /users/:id/skills
func (h *UserHandler) RemoveSkills(c *gin.Context) {
	h.changeSkills(c, h.svc.RemoveSkills)
}

func (h *UserHandler) changeSkills(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, skills []string) (*service.SkillSet, error)) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req skillsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Skills == nil {
		fail(c, http.StatusBadRequest, "skills must be an array")
		return
	}
	set, err := apply(c.Request.Context(), id, req.Skills)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, set)
}
