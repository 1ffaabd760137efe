package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/engagekit/engagement-tracker/internal/domain"
	"github.com/engagekit/engagement-tracker/internal/logger"
	"github.com/engagekit/engagement-tracker/internal/storage"
)

// clickedAtFormat is the wire format for clicked_at timestamps.
const clickedAtFormat = "2006-01-02 15:04:05"

// clickJSON is the wire representation of one click. The field names are a
// compatibility contract with existing dashboard consumers.
type clickJSON struct {
	PostNum    int64  `json:"post_num"`
	TgID       int64  `json:"tg_id"`
	TgUsername string `json:"tg_username"`
	XUsername  string `json:"x_username"`
	XLink      string `json:"x_link"`
	ClickedAt  string `json:"clicked_at"`
}

// ClicksHandler serves the session click history API.
type ClicksHandler struct {
	store *storage.Store
	log   logger.Logger
}

// NewClicksHandler creates a ClicksHandler backed by the given store.
func NewClicksHandler(store *storage.Store, log logger.Logger) *ClicksHandler {
	return &ClicksHandler{store: store, log: log}
}

// ListClicks returns all clicks for a session, ordered by click time.
func (h *ClicksHandler) ListClicks(c *gin.Context) {
	sessionNum, ok := parseSession(c)
	if !ok {
		return
	}

	events, err := h.store.ListBySession(c.Request.Context(), sessionNum)
	if err != nil {
		h.log.Error("Failed to list clicks",
			logger.Error(err),
			logger.Int64("session_num", sessionNum),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	clicks := make([]clickJSON, 0, len(events))
	for _, event := range events {
		clicks = append(clicks, toClickJSON(event))
	}

	c.JSON(http.StatusOK, gin.H{"clicks": clicks})
}

// ClearSession purges a session's click history.
func (h *ClicksHandler) ClearSession(c *gin.Context) {
	sessionNum, ok := parseSession(c)
	if !ok {
		return
	}

	deleted, err := h.store.PurgeSession(c.Request.Context(), sessionNum)
	if err != nil {
		h.log.Error("Failed to purge session",
			logger.Error(err),
			logger.Int64("session_num", sessionNum),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"session": sessionNum,
		"deleted": deleted,
	})
}

// parseSession extracts the session path parameter, responding with 400 on
// a non-numeric value.
func parseSession(c *gin.Context) (int64, bool) {
	sessionNum, err := strconv.ParseInt(c.Param("session"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session number"})
		return 0, false
	}
	return sessionNum, true
}

func toClickJSON(event domain.ClickEvent) clickJSON {
	return clickJSON{
		PostNum:    event.PostNum,
		TgID:       event.TgID,
		TgUsername: event.TgUsername,
		XUsername:  event.XUsername,
		XLink:      event.XLink,
		ClickedAt:  event.ClickedAt.Format(clickedAtFormat),
	}
}
