package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

type DashboardHandler struct {
	events *service.EventService
	audit  *service.AuditReporter
}

func NewDashboardHandler(events *service.EventService, audit *service.AuditReporter) *DashboardHandler {
	return &DashboardHandler{events: events, audit: audit}
}

// Query godoc
// @Summary List detection events inside a date range
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD (inclusive)"
// @Success 200 {array} model.EventResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/dashboard [get]
func (h *DashboardHandler) Query(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	events, err := h.events.QueryRange(ctx, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionQueryDashboard, model.AuditInfo,
		fmt.Sprintf("%d events returned", len(events)))
	c.JSON(http.StatusOK, service.EventResponses(events))
}
