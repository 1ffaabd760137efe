package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/engagekit/engagement-tracker/internal/logger"
	"github.com/engagekit/engagement-tracker/internal/middleware"
	"github.com/engagekit/engagement-tracker/internal/resolver"
)

// VisitHandler handles visit redirect requests.
type VisitHandler struct {
	resolver *resolver.Resolver
	log      logger.Logger
}

// NewVisitHandler creates a VisitHandler with the given dependencies.
func NewVisitHandler(res *resolver.Resolver, log logger.Logger) *VisitHandler {
	return &VisitHandler{resolver: res, log: log}
}

// HandleVisit records the click and redirects to the resolved target.
//
// uid is required and must be a positive integer; everything else is
// optional. A recording failure is logged but never blocks the redirect:
// click logging is best-effort telemetry, the redirect is the product.
func (h *VisitHandler) HandleVisit(c *gin.Context) {
	req, err := parseVisitRequest(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if c.GetBool(middleware.IsBotKey) {
		c.Redirect(http.StatusFound, h.resolver.ResolveTarget(req))
		return
	}

	target, trackErr := h.resolver.Track(c.Request.Context(), req)
	if trackErr != nil {
		h.log.Error("Failed to record click",
			logger.Error(trackErr),
			logger.Int64("session_num", req.SessionNum),
			logger.Int64("post_num", req.PostNum),
			logger.Int64("tg_id", req.TgID),
		)
	}

	c.Redirect(http.StatusFound, target)
}

// parseVisitRequest extracts the visit parameters from the query string.
// uid must parse to a positive integer; post and sess default to 0.
func parseVisitRequest(c *gin.Context) (resolver.VisitRequest, error) {
	uid, err := strconv.ParseInt(c.Query("uid"), 10, 64)
	if err != nil || uid <= 0 {
		return resolver.VisitRequest{}, errInvalidUID
	}

	return resolver.VisitRequest{
		TgID:       uid,
		PostNum:    parseIntOrZero(c.Query("post")),
		SessionNum: parseIntOrZero(c.Query("sess")),
		TargetURL:  c.Query("target"),
		TgUsername: c.Query("uname"),
		XUsername:  c.Query("xuser"),
	}, nil
}

func parseIntOrZero(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
