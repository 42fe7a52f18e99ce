package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

type LogHandler struct {
	audit *service.AuditReporter
}

func NewLogHandler(audit *service.AuditReporter) *LogHandler {
	return &LogHandler{audit: audit}
}

// List godoc
// @Summary List audit log entries, newest first
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 100, cap 500)"
// @Success 200 {array} model.AuditEntryResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/logs [get]
func (h *LogHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]model.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.AuditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Status:    e.Status,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	c.JSON(http.StatusOK, out)
}
