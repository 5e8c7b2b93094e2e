package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aulapronta/internal/errors"
	"aulapronta/internal/policy"
)

// ActorContextKey is where the auth middleware stores the resolved actor.
const ActorContextKey = "actor"

// actorFromContext retrieves the actor resolved by the auth middleware.
func actorFromContext(c echo.Context) (policy.Actor, error) {
	actor, ok := c.Get(ActorContextKey).(policy.Actor)
	if !ok || actor.ID == uuid.Nil {
		return policy.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "user is not authenticated",
			Code:  "UNAUTHENTICATED",
		})
	}
	return actor, nil
}

// parseUUID parses a path or query id, answering 400 on a bad format.
func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + field,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// domainError maps a service error to an echo HTTP error.
func domainError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
