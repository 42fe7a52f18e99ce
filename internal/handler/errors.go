package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

// writeError maps expected service error kinds to generic client responses.
// The precise internal reason is deliberately withheld: a failed login never
// says whether the username existed, a rejected token never says why, a
// policy refusal never names the rule. Anything unclassified is logged in
// full and surfaced as a bare 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "invalid input"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Detail: "invalid credentials"})
	case service.IsTokenError(err):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Detail: "invalid token"})
	case errors.Is(err, service.ErrResetInvalidTarget), errors.Is(err, service.ErrResetInvalidToken):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "invalid or expired token"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, model.ErrorResponse{Detail: "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Detail: "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{Detail: "conflict"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Detail: "internal server error"})
	}
}
