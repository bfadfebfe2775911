package handlers

import (
	"net/http"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MatchHandler struct {
	matchService *service.MatchService
	log          logrus.FieldLogger
}

func NewMatchHandler(matchService *service.MatchService, log logrus.FieldLogger) *MatchHandler {
	return &MatchHandler{matchService: matchService, log: log}
}

type PinMatchRequest struct {
	TargetUserID uuid.UUID `json:"targetUserId" validate:"required"`
}

type PinMatchResponse struct {
	TargetUserID uuid.UUID `json:"targetUserId"`
	Pinned       bool      `json:"pinned"`
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	entries, err := h.matchService.ListMatches(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, h.log, "match.List", err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

func (h *MatchHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req PinMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pinned, err := h.matchService.TogglePin(r.Context(), userID, req.TargetUserID)
	if err != nil {
		response.FromError(w, r, h.log, "match.TogglePin", err)
		return
	}

	response.JSON(w, http.StatusOK, PinMatchResponse{TargetUserID: req.TargetUserID, Pinned: pinned})
}
