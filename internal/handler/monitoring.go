package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

type MonitoringHandler struct {
	events *service.EventService
	audit  *service.AuditReporter
}

func NewMonitoringHandler(events *service.EventService, audit *service.AuditReporter) *MonitoringHandler {
	return &MonitoringHandler{events: events, audit: audit}
}

// Create godoc
// @Summary Register a detection event from an edge device
// @Tags monitoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.EventCreateRequest true "Detection event with base64 evidence"
// @Success 201 {object} model.DetailResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/monitoring [post]
func (h *MonitoringHandler) Create(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	var req model.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	event, err := h.events.Ingest(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.audit.Report(ctx, actor, model.ActionCreateEvent, model.AuditError,
				fmt.Sprintf("invalid event payload: %v", err))
		}
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionCreateEvent, model.AuditSuccess,
		fmt.Sprintf("event recorded for MAC %s", event.MACAddress))
	c.JSON(http.StatusCreated, model.DetailResponse{Detail: "event recorded"})
}
