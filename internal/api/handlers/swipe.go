package handlers

import (
	"net/http"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SwipeHandler struct {
	swipeService *service.SwipeService
	log          logrus.FieldLogger
}

func NewSwipeHandler(swipeService *service.SwipeService, log logrus.FieldLogger) *SwipeHandler {
	return &SwipeHandler{swipeService: swipeService, log: log}
}

type SwipeRequest struct {
	TargetUserID uuid.UUID `json:"targetUserId" validate:"required"`
	Direction    string    `json:"direction" validate:"required"`
}

type SpinWinRequest struct {
	TargetUserID uuid.UUID `json:"targetUserId" validate:"required"`
	IsWinner     bool      `json:"isWinner"`
	Direction    string    `json:"direction"`
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SwipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.swipeService.Swipe(r.Context(), userID, req.TargetUserID, domain.Direction(req.Direction))
	if err != nil {
		response.FromError(w, r, h.log, "swipe.Swipe", err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *SwipeHandler) SpinWin(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SpinWinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.swipeService.SpinResolve(r.Context(), userID, req.TargetUserID, req.IsWinner, domain.Direction(req.Direction))
	if err != nil {
		response.FromError(w, r, h.log, "swipe.SpinWin", err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
