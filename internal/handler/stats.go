package handler

import (
	"net/http"
	"strconv"

	"shortlink/internal/service"
	"shortlink/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles analytics endpoints
type StatsHandler struct {
	stats service.StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats service.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Report handles GET /api/v1/links/:slug/stats
// @Summary Get analytics for a short link
// @Description Returns total clicks, daily clicks and breakdowns. Owner or admin only.
// @Tags analytics
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Response{data=model.Report}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/links/{slug}/stats [get]
func (h *StatsHandler) Report(c *gin.Context) {
	report, err := h.stats.ReportFor(c.Request.Context(), c.Param("slug"),
		middleware.SessionID(c), middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, report)
}

// Clicks handles GET /api/v1/links/:slug/clicks
// @Summary Recent raw clicks
// @Description Returns the latest archived clicks of a link. Admin only.
// @Tags analytics
// @Produce json
// @Param slug path string true "Slug"
// @Param limit query int false "Maximum number of clicks (default 50)"
// @Success 200 {object} Response{data=[]model.ClickLog}
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/links/{slug}/clicks [get]
func (h *StatsHandler) Clicks(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		limit = n
	}

	clicks, err := h.stats.RecentClicks(c.Request.Context(), c.Param("slug"), limit, middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, clicks)
}
