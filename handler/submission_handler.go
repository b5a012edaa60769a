package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/RigelNana/edubridge/middleware"
	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SubmissionHandler struct {
	svc            service.SubmissionService
	log            logrus.FieldLogger
	maxUploadBytes int64
}

func NewSubmissionHandler(svc service.SubmissionService, log logrus.FieldLogger, maxUploadBytes int64) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, log: log, maxUploadBytes: maxUploadBytes}
}

type gradeRequest struct {
	Grade    json.RawMessage `json:"grade"`
	Feedback *string         `json:"feedback"`
}

type statusRequest struct {
	Status   string          `json:"status" binding:"required"`
	Feedback *string         `json:"feedback"`
	Grade    json.RawMessage `json:"grade"`
}

// CreateSubmission POST /submissions (multipart: task_id, file)
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.PostForm("task_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "task_id must be a valid UUID")
		return
	}
	if claimed := c.PostForm("user_id"); claimed != "" && claimed != caller.UserID.String() {
		fail(c, http.StatusForbidden, "user_id does not match the authenticated user")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		fail(c, http.StatusBadRequest, fmt.Sprintf("file exceeds the %d byte limit", h.maxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	defer f.Close()

	created, err := h.svc.Create(c.Request.Context(), caller, service.CreateSubmissionInput{
		TaskID: taskID,
		File: &service.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		},
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, created)
}

// GetSubmission GET /submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sub, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, sub)
}

// ListFiles GET /submissions/:id/files
func (h *SubmissionHandler) ListFiles(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	files, err := h.svc.ListFiles(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, files)
}

// ListByTask GET /submissions/task/:id
func (h *SubmissionHandler) ListByTask(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.svc.ListByTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, subs)
}

// ListByUser GET /submissions/user/:id
func (h *SubmissionHandler) ListByUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.svc.ListByUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, subs)
}

// GradeSubmission PATCH /submissions/:id/grade
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req gradeRequest
	if !bindJSON(c, &req) {
		return
	}
	grade, err := parseGrade(req.Grade)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if grade == nil {
		fail(c, http.StatusBadRequest, "grade is required")
		return
	}

	result, err := h.svc.GradeSubmission(c.Request.Context(), id, *grade, req.Feedback)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, result)
}

// UpdateStatus PATCH /submissions/:id/status
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	grade, err := parseGrade(req.Grade)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.SetSubmissionStatus(c.Request.Context(), id, service.StatusUpdate{
		Status:   models.SubmissionStatus(req.Status),
		Feedback: req.Feedback,
		Grade:    grade,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, result)
}
