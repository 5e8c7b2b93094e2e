package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"aulapronta/internal/auth"
	"aulapronta/internal/config"
	"aulapronta/internal/errors"
	"aulapronta/internal/handler"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	activityHandler *handler.ActivityHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	answerHandler *handler.AnswerHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Public routes
	api.POST("/auth/registrar", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	}), resolveActor(tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	// User routes
	secured.GET("/usuarios/professores", userHandler.ListTeachers)
	secured.GET("/usuarios/alunos", userHandler.ListStudents, requireTeacher)
	secured.GET("/usuarios/:id", userHandler.Get)
	secured.PUT("/usuarios/:id", userHandler.Update)
	secured.DELETE("/usuarios/:id", userHandler.Delete)

	// Activity routes
	secured.POST("/atividades", activityHandler.Create, requireTeacher)
	secured.GET("/atividades", activityHandler.List)
	secured.GET("/atividades/:id", activityHandler.Get)
	secured.PUT("/atividades/:id", activityHandler.Update, requireTeacher)
	secured.DELETE("/atividades/:id", activityHandler.Delete, requireTeacher)
	secured.POST("/atividades/:id/duplicar", activityHandler.Duplicate, requireTeacher)

	// Enrollment routes
	secured.POST("/inscricoes", enrollmentHandler.Enroll, requireTeacher)
	secured.GET("/inscricoes", enrollmentHandler.List)
	secured.DELETE("/inscricoes/:id", enrollmentHandler.Delete, requireTeacher)

	// Answer routes
	secured.POST("/respostas", answerHandler.Submit)
	secured.GET("/respostas", answerHandler.List)
	secured.DELETE("/respostas/:id", answerHandler.Delete)
}

// resolveActor turns validated JWT claims into a policy.Actor and
// rejects blacklisted access tokens.
func resolveActor(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return unauthorized("invalid token claims")
			}

			if claims.ID != "" {
				blacklisted, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if err == nil && blacklisted {
					return unauthorized("token has been revoked")
				}
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return unauthorized("invalid token subject")
			}

			c.Set(handler.ActorContextKey, policy.Actor{
				ID:    userID,
				Email: claims.Email,
				Role:  model.Role(claims.Role),
			})
			return next(c)
		}
	}
}

// requireTeacher rejects requests whose actor is not a teacher.
func requireTeacher(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := c.Get(handler.ActorContextKey).(policy.Actor)
		if !ok {
			return unauthorized("user is not authenticated")
		}
		if actor.Role != model.RoleTeacher {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "this operation requires a teacher account",
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

func unauthorized(message string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: message,
		Code:  "UNAUTHENTICATED",
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
