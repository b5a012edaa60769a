package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	svc service.TaskService
	log logrus.FieldLogger
}

func NewTaskHandler(svc service.TaskService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

type createTaskRequest struct {
	PostedBy    string   `json:"posted_by" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Domains     []string `json:"domains"`
	EffortHours *int     `json:"effort_hours" binding:"omitempty,gte=0"`
	ExpiryDate  *string  `json:"expiry_date"`
}

// CreateTask POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	postedBy, err := uuid.Parse(req.PostedBy)
	if err != nil {
		fail(c, http.StatusBadRequest, "posted_by must be a valid UUID")
		return
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "expiry_date must be a date (YYYY-MM-DD)")
		return
	}

	task, err := h.svc.Create(c.Request.Context(), service.CreateTaskInput{
		PostedBy:    postedBy,
		Title:       req.Title,
		Description: req.Description,
		Domains:     req.Domains,
		EffortHours: req.EffortHours,
		ExpiryDate:  expiry,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, task)
}

// ListTasks GET /tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, tasks)
}

// GetTask GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	task, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, task)
}

// ListCompanyTasks GET /tasks/company/:companyId
func (h *TaskHandler) ListCompanyTasks(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	tasks, err := h.svc.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, tasks)
}

// ListTaskSubmissions GET /tasks/:id/submissions
func (h *TaskHandler) ListTaskSubmissions(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.svc.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, subs)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
