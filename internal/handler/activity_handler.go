package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"aulapronta/internal/errors"
	"aulapronta/internal/model"
	"aulapronta/internal/repository"
	"aulapronta/internal/service"
)

// ActivityHandler handles activity endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// QuestionRequest represents one content item of an activity.
type QuestionRequest struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Kind          string   `json:"kind" validate:"required,oneof=multiple_choice essay"`
	Choices       []string `json:"choices,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
}

// MaterialRequest represents one support material.
type MaterialRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=text link pdf"`
	Content string `json:"content" validate:"required"`
	Title   string `json:"title,omitempty"`
}

// CreateActivityRequest represents an activity creation request.
type CreateActivityRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Subject     string            `json:"subject" validate:"required"`
	GradeLevel  string            `json:"grade_level" validate:"required"`
	Objective   string            `json:"objective,omitempty"`
	Status      string            `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	IsPublic    bool              `json:"is_public"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Questions   []QuestionRequest `json:"content,omitempty" validate:"dive"`
	Materials   []MaterialRequest `json:"support_materials,omitempty" validate:"dive"`
}

// UpdateActivityRequest represents a partial activity update. Absent
// fields are left unchanged.
type UpdateActivityRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Subject     *string            `json:"subject,omitempty"`
	GradeLevel  *string            `json:"grade_level,omitempty"`
	Objective   *string            `json:"objective,omitempty"`
	Status      *string            `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	IsPublic    *bool              `json:"is_public,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Finalized   *bool              `json:"finalized,omitempty"`
	Questions   *[]QuestionRequest `json:"content,omitempty" validate:"omitempty,dive"`
	Materials   *[]MaterialRequest `json:"support_materials,omitempty" validate:"omitempty,dive"`
}

// ActivityResponse wraps an activity with a message.
type ActivityResponse struct {
	Activity *model.Activity `json:"activity"`
	Message  string          `json:"message,omitempty"`
}

// ActivityListResponse represents an activity listing.
type ActivityListResponse struct {
	Activities []model.Activity `json:"activities"`
	Total      int              `json:"total"`
}

func toQuestions(reqs []QuestionRequest) []model.Question {
	questions := make([]model.Question, 0, len(reqs))
	for i, q := range reqs {
		questions = append(questions, model.Question{
			Prompt:        q.Prompt,
			Kind:          model.QuestionKind(q.Kind),
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
			Position:      i,
		})
	}
	return questions
}

func toMaterials(reqs []MaterialRequest) []model.SupportMaterial {
	materials := make([]model.SupportMaterial, 0, len(reqs))
	for i, m := range reqs {
		materials = append(materials, model.SupportMaterial{
			Kind:     model.MaterialKind(m.Kind),
			Content:  m.Content,
			Title:    m.Title,
			Position: i,
		})
	}
	return materials
}

func filterFromQuery(c echo.Context) (repository.Filter, error) {
	filter := repository.Filter{
		Subject:    c.QueryParam("subject"),
		GradeLevel: c.QueryParam("grade_level"),
		Status:     model.ActivityStatus(c.QueryParam("status")),
	}
	if owner := c.QueryParam("owner_id"); owner != "" {
		ownerID, err := parseUUID(owner, "owner_id")
		if err != nil {
			return repository.Filter{}, err
		}
		filter.OwnerID = ownerID
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return repository.Filter{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: `status must be "draft" or "published"`,
			Code:  "VALIDATION_ERROR",
		})
	}
	return filter, nil
}

// Create godoc
// @Summary Create an activity
// @Tags atividades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateActivityRequest true "Activity data"
// @Success 201 {object} ActivityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /atividades [post]
func (h *ActivityHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activity := &model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		GradeLevel:  req.GradeLevel,
		Objective:   req.Objective,
		Status:      model.ActivityStatus(req.Status),
		IsPublic:    req.IsPublic,
		DueDate:     req.DueDate,
		Questions:   toQuestions(req.Questions),
		Materials:   toMaterials(req.Materials),
	}

	created, err := h.activityService.Create(c.Request().Context(), activity, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, ActivityResponse{
		Activity: created,
		Message:  "activity created successfully",
	})
}

// List godoc
// @Summary List visible activities
// @Tags atividades
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Filter by subject"
// @Param grade_level query string false "Filter by grade level"
// @Param status query string false "Filter by status (teachers only)"
// @Param owner_id query string false "Filter by owner (teachers only)"
// @Success 200 {object} ActivityListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /atividades [get]
func (h *ActivityHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		return err
	}

	activities, err := h.activityService.List(c.Request().Context(), actor, filter)
	if err != nil {
		return domainError(err)
	}
	if activities == nil {
		activities = []model.Activity{}
	}

	return c.JSON(http.StatusOK, ActivityListResponse{
		Activities: activities,
		Total:      len(activities),
	})
}

// Get godoc
// @Summary Get one activity
// @Tags atividades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} ActivityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /atividades/{id} [get]
func (h *ActivityHandler) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "activity ID")
	if err != nil {
		return err
	}

	activity, err := h.activityService.Get(c.Request().Context(), id, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, ActivityResponse{Activity: activity})
}

// Update godoc
// @Summary Update an activity
// @Tags atividades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body UpdateActivityRequest true "Fields to update"
// @Success 200 {object} ActivityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /atividades/{id} [put]
func (h *ActivityHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "activity ID")
	if err != nil {
		return err
	}

	var req UpdateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := service.ActivityPatch{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		GradeLevel:  req.GradeLevel,
		Objective:   req.Objective,
		IsPublic:    req.IsPublic,
		DueDate:     req.DueDate,
		Finalized:   req.Finalized,
	}
	if req.Status != nil {
		status := model.ActivityStatus(*req.Status)
		patch.Status = &status
	}
	if req.Questions != nil {
		patch.Questions = toQuestions(*req.Questions)
	}
	if req.Materials != nil {
		patch.Materials = toMaterials(*req.Materials)
	}

	updated, err := h.activityService.Update(c.Request().Context(), id, patch, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, ActivityResponse{
		Activity: updated,
		Message:  "activity updated successfully",
	})
}

// Delete godoc
// @Summary Delete an activity
// @Tags atividades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /atividades/{id} [delete]
func (h *ActivityHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "activity ID")
	if err != nil {
		return err
	}

	if err := h.activityService.Delete(c.Request().Context(), id, actor); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "activity deleted successfully"})
}

// Duplicate godoc
// @Summary Duplicate an activity into a new private draft
// @Tags atividades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 201 {object} ActivityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /atividades/{id}/duplicar [post]
func (h *ActivityHandler) Duplicate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseUUID(c.Param("id"), "activity ID")
	if err != nil {
		return err
	}

	copied, err := h.activityService.Duplicate(c.Request().Context(), id, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, ActivityResponse{
		Activity: copied,
		Message:  "activity duplicated successfully",
	})
}
