package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aulapronta/internal/auth"
	"aulapronta/internal/errors"
	"aulapronta/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, email, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 15*time.Minute)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name         string
		userName     string
		email        string
		password     string
		role         model.Role
		setupMock    func(*MockUserRepository)
		expectedKind errors.Kind
		wantErr      bool
	}{
		{
			name:     "successful teacher registration",
			userName: "Helena Castro",
			email:    "Helena@Escola.Example",
			password: "senha123",
			role:     model.RoleTeacher,
			setupMock: func(m *MockUserRepository) {
				m.On("EmailExists", mock.Anything, "helena@escola.example").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "email already registered",
			userName: "Helena Castro",
			email:    "helena@escola.example",
			password: "senha123",
			role:     model.RoleTeacher,
			setupMock: func(m *MockUserRepository) {
				m.On("EmailExists", mock.Anything, "helena@escola.example").Return(true, nil)
			},
			wantErr:      true,
			expectedKind: errors.KindConflict,
		},
		{
			name:     "password too short",
			userName: "Ana",
			email:    "ana@aluno.example",
			password: "12345",
			role:     model.RoleStudent,
			setupMock: func(m *MockUserRepository) {
				m.On("EmailExists", mock.Anything, "ana@aluno.example").Return(false, nil)
			},
			wantErr:      true,
			expectedKind: errors.KindValidation,
		},
		{
			name:     "invalid role",
			userName: "Ana",
			email:    "ana@aluno.example",
			password: "senha123",
			role:     "admin",
			setupMock: func(m *MockUserRepository) {
				m.On("EmailExists", mock.Anything, "ana@aluno.example").Return(false, nil)
			},
			wantErr:      true,
			expectedKind: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService(), new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.userName, tt.email, tt.password, tt.role)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, tt.expectedKind))
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "helena@escola.example", user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	userID := uuid.New()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("senha123"), 10)

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(*MockUserRepository, *MockTokenStore)
		wantErr   bool
	}{
		{
			name:     "successful login",
			email:    "helena@escola.example",
			password: "senha123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "helena@escola.example").Return(&model.User{
					ID:           userID,
					Email:        "helena@escola.example",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleTeacher,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, userID.String(), "helena@escola.example", "teacher", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "user not found",
			email:    "nobody@escola.example",
			password: "senha123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@escola.example").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: true,
		},
		{
			name:     "wrong password",
			email:    "helena@escola.example",
			password: "errada",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "helena@escola.example").Return(&model.User{
					ID:           userID,
					Email:        "helena@escola.example",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleTeacher,
				}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, newTestJWTService(), mockTokenStore)
			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := newTestJWTService()
	userID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "ana@aluno.example", "student")
	assert.NoError(t, err)

	t.Run("successful refresh", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).
			Return(userID.String(), "ana@aluno.example", "student", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("token not in store", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).
			Return("", "", "", errors.Unauthenticated("not found"))

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)

		assert.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
		assert.Empty(t, accessToken)
	})

	t.Run("stored identity does not match claims", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).
			Return(uuid.New().String(), "ana@aluno.example", "student", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err := service.RefreshToken(context.Background(), refreshToken)

		assert.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
	})

	t.Run("garbage token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), "not-a-jwt")

		assert.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := newTestJWTService()
	userID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "ana@aluno.example", "student")
	assert.NoError(t, err)

	t.Run("deletes refresh token and blacklists access token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		mockTokenStore.On("BlacklistAccessToken", mock.Anything, "access-jti", jwtService.AccessTTL()).Return(nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		err := service.Logout(context.Background(), refreshToken, "access-jti")

		assert.NoError(t, err)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("skips blacklist when no access token id", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		err := service.Logout(context.Background(), refreshToken, "")

		assert.NoError(t, err)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		err := service.Logout(context.Background(), "not-a-jwt", "access-jti")

		assert.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
	})
}
