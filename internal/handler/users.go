package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edge-risk/backend/internal/model"
	"github.com/edge-risk/backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
	audit *service.AuditReporter
}

func NewUserHandler(users *service.UserService, audit *service.AuditReporter) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/user [get]
func (h *UserHandler) List(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	users, err := h.users.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, model.NewUserResponse(u))
	}

	h.audit.Report(ctx, actor, model.ActionListUsers, model.AuditInfo,
		fmt.Sprintf("%d users returned", len(out)))
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary Create a user
// @Description Requires the staff tier; granting is_superuser requires a superuser actor.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UserCreateRequest true "New account"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/user [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	var req model.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	user, err := h.users.Create(ctx, actor, &req)
	if err != nil {
		h.reportMutationFailure(c, actor, model.ActionCreateUser, err)
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionCreateUser, model.AuditSuccess,
		fmt.Sprintf("user %d created", user.ID))
	c.JSON(http.StatusCreated, model.NewUserResponse(user))
}

// Get godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/user/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		writeError(c, service.ErrNotFound)
		return
	}

	user, err := h.users.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionGetUser, model.AuditInfo,
		fmt.Sprintf("user %d retrieved", id))
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

// Update godoc
// @Summary Update a user
// @Description Self-edits are always allowed; role flag changes follow the promotion rules.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param request body model.UserUpdateRequest true "Fields to change"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/user/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		writeError(c, service.ErrNotFound)
		return
	}

	var req model.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}

	user, err := h.users.Update(ctx, actor, id, &req)
	if err != nil {
		h.reportMutationFailure(c, actor, model.ActionUpdateUser, err)
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionUpdateUser, model.AuditSuccess,
		fmt.Sprintf("user %d updated", id))
	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

// Delete godoc
// @Summary Delete a user
// @Description Superuser accounts can never be deleted. Deleting an account still referenced by audit entries yields 409.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} model.DetailResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/user/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor := GetAuthUser(c)
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		writeError(c, service.ErrNotFound)
		return
	}

	if err := h.users.Delete(ctx, actor, id); err != nil {
		h.reportMutationFailure(c, actor, model.ActionDeleteUser, err)
		writeError(c, err)
		return
	}

	h.audit.Report(ctx, actor, model.ActionDeleteUser, model.AuditSuccess,
		fmt.Sprintf("user %d deleted", id))
	c.JSON(http.StatusOK, model.DetailResponse{Detail: "user deleted"})
}

func (h *UserHandler) reportMutationFailure(c *gin.Context, actor *model.AuthUser, action string, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, service.ErrForbidden):
		h.audit.Report(ctx, actor, action, model.AuditWarning, "refused by authorization policy")
	case errors.Is(err, service.ErrConflict):
		h.audit.Report(ctx, actor, action, model.AuditError, "conflicting or referenced account")
	case errors.Is(err, service.ErrInvalidInput):
		h.audit.Report(ctx, actor, action, model.AuditWarning, "invalid payload")
	}
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
