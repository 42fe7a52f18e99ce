package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

type AuthHandler struct {
	auth  *service.AuthService
	reset *service.PasswordResetService
	audit *service.AuditReporter
}

func NewAuthHandler(auth *service.AuthService, reset *service.PasswordResetService, audit *service.AuditReporter) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset, audit: audit}
}

// Login godoc
// @Summary Authenticate and receive a token pair
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/authentication/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	ctx := c.Request.Context()
	user, pair, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.audit.Report(ctx, nil, model.ActionLogin, model.AuditError, "invalid credentials")
		}
		writeError(c, err)
		return
	}

	actor := &model.AuthUser{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff, IsSuperuser: user.IsSuperuser}
	h.audit.Report(ctx, actor, model.ActionLogin, model.AuditSuccess, "login succeeded")

	c.JSON(http.StatusOK, model.LoginResponse{
		Access:      pair.Access,
		Refresh:     pair.Refresh,
		ID:          user.ID,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	})
}

// Renew godoc
// @Summary Mint a new access token from a refresh token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body model.RenewRequest true "Refresh token"
// @Success 200 {object} model.RenewResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/authentication/renew [post]
func (h *AuthHandler) Renew(c *gin.Context) {
	var req model.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrTokenMalformed)
		return
	}

	ctx := c.Request.Context()
	access, err := h.auth.Renew(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrTokenRevoked) {
			h.audit.Report(ctx, nil, model.ActionRenewToken, model.AuditWarning, "renewal attempted with a revoked refresh token")
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.RenewResponse{Access: access})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} model.DetailResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/authentication/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := GetAuthUser(c)

	var req model.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrTokenMalformed)
		return
	}

	ctx := c.Request.Context()
	alreadyRevoked, err := h.auth.Revoke(ctx, req.Refresh)
	if err != nil {
		if service.IsTokenError(err) {
			h.audit.Report(ctx, actor, model.ActionLogout, model.AuditError, "logout with an invalid refresh token")
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "invalid token"})
			return
		}
		writeError(c, err)
		return
	}

	if alreadyRevoked {
		h.audit.Report(ctx, actor, model.ActionLogout, model.AuditWarning, "refresh token was already revoked")
	} else {
		h.audit.Report(ctx, actor, model.ActionLogout, model.AuditSuccess, "logout succeeded")
	}

	c.JSON(http.StatusOK, model.DetailResponse{Detail: "logged out"})
}

// PasswordResetRequest godoc
// @Summary Request a password reset link
// @Description Always returns 200 with the same body, whether or not the email exists.
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body model.PasswordResetRequest true "Account email"
// @Success 200 {object} model.DetailResponse
// @Router /api/authentication/password-reset [post]
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	ctx := c.Request.Context()
	user, err := h.reset.RequestReset(ctx, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	if user != nil {
		actor := &model.AuthUser{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff, IsSuperuser: user.IsSuperuser}
		h.audit.Report(ctx, actor, model.ActionPasswordResetRequest, model.AuditInfo, "password reset link requested")
	}

	c.JSON(http.StatusOK, model.DetailResponse{Detail: "if the email exists, a link will be sent"})
}

// PasswordResetConfirm godoc
// @Summary Confirm a password reset
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body model.PasswordResetConfirmRequest true "uid, token and new password"
// @Success 200 {object} model.DetailResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/authentication/password-reset/confirm [post]
func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req model.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	ctx := c.Request.Context()
	user, err := h.reset.ConfirmReset(ctx, req.UID, req.Token, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrResetInvalidTarget) || errors.Is(err, service.ErrResetInvalidToken) {
			h.audit.Report(ctx, nil, model.ActionPasswordResetConfirm, model.AuditError, "password reset rejected")
		}
		writeError(c, err)
		return
	}

	actor := &model.AuthUser{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff, IsSuperuser: user.IsSuperuser}
	h.audit.Report(ctx, actor, model.ActionPasswordResetConfirm, model.AuditSuccess, "password reset succeeded")

	c.JSON(http.StatusOK, model.DetailResponse{Detail: "password has been reset"})
}
