package handler

import (
	"context"
	"net/http"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EduPointsHandler struct {
	svc service.EduPointsService
	log logrus.FieldLogger
}

func NewEduPointsHandler(svc service.EduPointsService, log logrus.FieldLogger) *EduPointsHandler {
	return &EduPointsHandler{svc: svc, log: log}
}

type pointsRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount *int64 `json:"amount" binding:"required"`
}

// Award POST /edupoints/award
func (h *EduPointsHandler) Award(c *gin.Context) {
	h.apply(c, h.svc.Award)
}

// Redeem POST /edupoints/redeem
func (h *EduPointsHandler) Redeem(c *gin.Context) {
	h.apply(c, h.svc.Redeem)
}

func (h *EduPointsHandler) apply(c *gin.Context, op func(context.Context, uuid.UUID, int64) (*models.EduPointsTransaction, error)) {
	var req pointsRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fail(c, http.StatusBadRequest, "user_id must be a valid UUID")
		return
	}
	tx, err := op(c.Request.Context(), userID, *req.Amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, tx)
}

// GetLedger GET /edupoints/:user_id
func (h *EduPointsHandler) GetLedger(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	view, err := h.svc.GetUserTransactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	success(c, view)
}
