package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/service"
	"github.com/sirupsen/logrus"
)

type FeedHandler struct {
	feedService *service.FeedService
	log         logrus.FieldLogger
}

func NewFeedHandler(feedService *service.FeedService, log logrus.FieldLogger) *FeedHandler {
	return &FeedHandler{feedService: feedService, log: log}
}

// AllUsers serves the candidate feed. Bad or missing page and limit values
// fall back to the defaults.
func (h *FeedHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	feed, err := h.feedService.GetFeed(r.Context(), userID, page, limit)
	if err != nil {
		response.FromError(w, r, h.log, "feed.AllUsers", err)
		return
	}

	response.JSON(w, http.StatusOK, feed)
}

func (h *FeedHandler) SpinnerUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	candidates, err := h.feedService.GetSpinnerCandidates(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, h.log, "feed.SpinnerUsers", err)
		return
	}

	response.JSON(w, http.StatusOK, candidates)
}
