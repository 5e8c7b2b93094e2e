package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aulapronta/internal/model"
	"aulapronta/internal/service"
)

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// EnrollRequest represents a bulk enrollment request.
type EnrollRequest struct {
	ActivityID string   `json:"activity_id" validate:"required,uuid"`
	Emails     []string `json:"emails" validate:"required,min=1"`
}

// EnrollResponse reports the outcome of a bulk enrollment.
type EnrollResponse struct {
	Enrolled    int                `json:"enrolled"`
	Enrollments []model.Enrollment `json:"enrollments"`
	Message     string             `json:"message"`
}

// EnrollmentListResponse represents an enrollment listing.
type EnrollmentListResponse struct {
	Enrollments []model.Enrollment `json:"enrollments"`
	Total       int                `json:"total"`
}

// Enroll godoc
// @Summary Enroll students into an activity by email
// @Tags inscricoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollRequest true "Activity and student emails"
// @Success 201 {object} EnrollResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inscricoes [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req EnrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activityID, err := parseUUID(req.ActivityID, "activity_id")
	if err != nil {
		return err
	}

	result, err := h.enrollmentService.Enroll(c.Request().Context(), activityID, req.Emails, actor)
	if err != nil {
		return domainError(err)
	}

	status := http.StatusCreated
	if result.NewCount == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, EnrollResponse{
		Enrolled:    result.NewCount,
		Enrollments: result.Enrollments,
		Message:     result.Message,
	})
}

// List godoc
// @Summary List enrollments of an activity
// @Tags inscricoes
// @Produce json
// @Security BearerAuth
// @Param activity_id query string true "Activity ID"
// @Success 200 {object} EnrollmentListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inscricoes [get]
func (h *EnrollmentHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	activityID, err := parseUUID(c.QueryParam("activity_id"), "activity_id")
	if err != nil {
		return err
	}

	enrollments, err := h.enrollmentService.ListEnrollments(c.Request().Context(), activityID, actor)
	if err != nil {
		return domainError(err)
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}

	return c.JSON(http.StatusOK, EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       len(enrollments),
	})
}

// Delete godoc
// @Summary Remove one enrollment from an activity
// @Tags inscricoes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param activity_id query string true "Activity ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inscricoes/{id} [delete]
func (h *EnrollmentHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	enrollmentID, err := parseUUID(c.Param("id"), "enrollment ID")
	if err != nil {
		return err
	}
	activityID, err := parseUUID(c.QueryParam("activity_id"), "activity_id")
	if err != nil {
		return err
	}

	if err := h.enrollmentService.DeleteEnrollment(c.Request().Context(), activityID, enrollmentID, actor); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "enrollment removed successfully"})
}
