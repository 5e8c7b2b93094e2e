package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aulapronta/internal/model"
	"aulapronta/internal/service"
)

// AnswerHandler handles answer endpoints.
type AnswerHandler struct {
	answerService service.AnswerService
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(answerService service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// AnswerItemRequest represents one answer within a submission.
type AnswerItemRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer" validate:"required"`
}

// SubmitAnswersRequest represents a wholesale answer submission. It
// replaces any previous answer set by the same user on the activity.
type SubmitAnswersRequest struct {
	ActivityID string              `json:"activity_id" validate:"required,uuid"`
	Answers    []AnswerItemRequest `json:"answers" validate:"required,min=1,dive"`
	Submitted  bool                `json:"submitted"`
}

// SubmitAnswersResponse returns the stored answer set.
type SubmitAnswersResponse struct {
	AnswerSet *model.AnswerSet `json:"answer_set"`
	Message   string           `json:"message"`
}

// Submit godoc
// @Summary Submit answers to an activity
// @Tags respostas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitAnswersRequest true "Answers"
// @Success 201 {object} SubmitAnswersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /respostas [post]
func (h *AnswerHandler) Submit(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req SubmitAnswersRequest
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

	items := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		questionID, err := parseUUID(a.QuestionID, "question_id")
		if err != nil {
			return err
		}
		items = append(items, service.AnswerInput{
			QuestionID: questionID,
			AnswerText: a.Answer,
		})
	}

	activity, err := h.answerService.Submit(c.Request().Context(), activityID, items, req.Submitted, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, SubmitAnswersResponse{
		AnswerSet: activity.AnswerSetBySubmitter(actor.ID),
		Message:   "answers saved successfully",
	})
}

// List godoc
// @Summary List answer sets of an activity
// @Tags respostas
// @Produce json
// @Security BearerAuth
// @Param activity_id query string true "Activity ID"
// @Success 200 {object} service.AnswerList
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /respostas [get]
func (h *AnswerHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	activityID, err := parseUUID(c.QueryParam("activity_id"), "activity_id")
	if err != nil {
		return err
	}

	list, err := h.answerService.ListAnswers(c.Request().Context(), activityID, actor)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// Delete godoc
// @Summary Delete one answer set from an activity
// @Tags respostas
// @Produce json
// @Security BearerAuth
// @Param id path string true "Answer set ID"
// @Param activity_id query string true "Activity ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /respostas/{id} [delete]
func (h *AnswerHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	setID, err := parseUUID(c.Param("id"), "answer set ID")
	if err != nil {
		return err
	}
	activityID, err := parseUUID(c.QueryParam("activity_id"), "activity_id")
	if err != nil {
		return err
	}

	if err := h.answerService.DeleteAnswerSet(c.Request().Context(), activityID, setID, actor); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "answer set deleted successfully"})
}
