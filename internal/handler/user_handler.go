package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aulapronta/internal/model"
	"aulapronta/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UserResponse wraps a user with a message.
type UserResponse struct {
	User    *model.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// UserListResponse represents a user listing.
type UserListResponse struct {
	Users []model.User `json:"users"`
	Total int          `json:"total"`
}

// ListTeachers godoc
// @Summary List teacher accounts
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /usuarios/professores [get]
func (h *UserHandler) ListTeachers(c echo.Context) error {
	if _, err := actorFromContext(c); err != nil {
		return err
	}

	users, err := h.userService.ListTeachers(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	if users == nil {
		users = []model.User{}
	}

	return c.JSON(http.StatusOK, UserListResponse{Users: users, Total: len(users)})
}

// ListStudents godoc
// @Summary List student accounts
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /usuarios/alunos [get]
func (h *UserHandler) ListStudents(c echo.Context) error {
	if _, err := actorFromContext(c); err != nil {
		return err
	}

	users, err := h.userService.ListStudents(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	if users == nil {
		users = []model.User{}
	}

	return c.JSON(http.StatusOK, UserListResponse{Users: users, Total: len(users)})
}

// Get godoc
// @Summary Get one user
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /usuarios/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	if _, err := actorFromContext(c); err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "user ID")
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{User: user})
}

// Update godoc
// @Summary Update a user account
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /usuarios/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "user ID")
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.Update(c.Request().Context(), id, service.UserPatch{
		Name:  req.Name,
		Email: req.Email,
	}, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{
		User:    updated,
		Message: "user updated successfully",
	})
}

// Delete godoc
// @Summary Delete a user account
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /usuarios/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "user ID")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), id, actor); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
