package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"aulapronta/internal/auth"
	"aulapronta/internal/config"
	"aulapronta/internal/handler"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
	"aulapronta/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListTeachers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) ListStudents(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, patch service.UserPatch, actor policy.Actor) (*model.User, error) {
	args := m.Called(ctx, id, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID, actor policy.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func newTestRouter(userService service.UserService) (*echo.Echo, *auth.JWTService) {
	e := echo.New()
	cfg := &config.Config{ServerPort: "8080", JWTSecret: "test-secret", AccessTokenTTL: time.Minute}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	tokenStore := auth.NewTokenStore(nil)

	Register(
		e,
		cfg,
		jwtService,
		tokenStore,
		handler.NewAuthHandler(nil),
		handler.NewUserHandler(userService),
		handler.NewActivityHandler(nil),
		handler.NewEnrollmentHandler(nil),
		handler.NewAnswerHandler(nil),
	)
	return e, jwtService
}

func doRequest(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthIsPublic(t *testing.T) {
	e, _ := newTestRouter(new(MockUserService))

	rec := doRequest(e, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SecuredRoutes(t *testing.T) {
	t.Run("request without token is rejected", func(t *testing.T) {
		e, _ := newTestRouter(new(MockUserService))

		rec := doRequest(e, http.MethodGet, "/api/usuarios/professores", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("request with garbage token is rejected", func(t *testing.T) {
		e, _ := newTestRouter(new(MockUserService))

		rec := doRequest(e, http.MethodGet, "/api/usuarios/professores", "not-a-jwt")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		e, _ := newTestRouter(new(MockUserService))
		other := auth.NewJWTService("another-secret", time.Minute)
		token, err := other.GenerateAccessToken(uuid.New(), "helena@escola.example", string(model.RoleTeacher))
		assert.NoError(t, err)

		rec := doRequest(e, http.MethodGet, "/api/usuarios/professores", token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid teacher token reaches the handler", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("ListTeachers", mock.Anything).Return([]model.User{}, nil)
		e, jwtService := newTestRouter(mockUsers)
		token, err := jwtService.GenerateAccessToken(uuid.New(), "helena@escola.example", string(model.RoleTeacher))
		assert.NoError(t, err)

		rec := doRequest(e, http.MethodGet, "/api/usuarios/professores", token)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockUsers.AssertExpectations(t)
	})

	t.Run("student token is rejected on teacher-only route", func(t *testing.T) {
		e, jwtService := newTestRouter(new(MockUserService))
		token, err := jwtService.GenerateAccessToken(uuid.New(), "ana@aluno.example", string(model.RoleStudent))
		assert.NoError(t, err)

		rec := doRequest(e, http.MethodGet, "/api/usuarios/alunos", token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
