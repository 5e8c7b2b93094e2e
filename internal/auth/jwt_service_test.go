package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "ana@aluno.example", "student")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ana@aluno.example", claims.Email)
	assert.Equal(t, "student", claims.Role)
	// Access tokens carry a JTI so they can be blacklisted on logout.
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RefreshTokenCarriesTokenID(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute)

	tokenID, token, err := service.GenerateRefreshToken(uuid.New(), "ana@aluno.example", "student")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	extracted, err := service.ExtractTokenID(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute)
	other := NewJWTService("other-secret", 15*time.Minute)

	token, err := service.GenerateAccessToken(uuid.New(), "ana@aluno.example", "student")
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	service := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultAccessTokenExpiry, service.AccessTTL())
}
