package handler

import (
	"net/http"

	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PortfolioHandler struct {
	svc service.PortfolioService
	log logrus.FieldLogger
}

func NewPortfolioHandler(svc service.PortfolioService, log logrus.FieldLogger) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, log: log}
}

type addPortfolioRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	SubmissionID string `json:"submission_id" binding:"required"`
}

// GetPortfolio GET /portfolio/:user_id
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	records, err := h.svc.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, records)
}

// AddEntry POST /portfolio
func (h *PortfolioHandler) AddEntry(c *gin.Context) {
	var req addPortfolioRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fail(c, http.StatusBadRequest, "user_id must be a valid UUID")
		return
	}
	submissionID, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		fail(c, http.StatusBadRequest, "submission_id must be a valid UUID")
		return
	}

	entry, err := h.svc.AddEntry(c.Request.Context(), userID, submissionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, entry)
}
