package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestium/backend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars-long",
		TokenExpiration: expiration,
		Issuer:          "gestium-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService(time.Hour)
	orgID := uuid.New()
	userID := uuid.New()

	token, err := service.GenerateToken(GenerateTokenInput{
		OrganizationID: orgID,
		UserID:         userID,
		Name:           "Ana Torres",
		Role:           "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, orgID.String(), claims.OrganizationID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Ana Torres", claims.Name)
	assert.Equal(t, "admin", claims.Role)

	gotOrg, err := claims.GetOrganizationUUID()
	require.NoError(t, err)
	assert.Equal(t, orgID, gotOrg)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	service := newTestJWTService(-time.Minute)

	token, err := service.GenerateToken(GenerateTokenInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
	})
	require.NoError(t, err)

	_, err = service.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSecret(t *testing.T) {
	service := newTestJWTService(time.Hour)
	other := NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-secret-value",
		TokenExpiration: time.Hour,
		Issuer:          "gestium-test",
	})

	token, err := other.GenerateToken(GenerateTokenInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
	})
	require.NoError(t, err)

	_, err = service.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateGarbage(t *testing.T) {
	service := newTestJWTService(time.Hour)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsMissingTenantClaims(t *testing.T) {
	secret := []byte("test-secret-key-at-least-32-chars-long")
	service := NewJWTService(config.JWTConfig{
		Secret:          string(secret),
		TokenExpiration: time.Hour,
		Issuer:          "gestium-test",
	})

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: uuid.New().String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrMissingOrganizationID)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	t.Run("future expiry", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}

		ttl := claims.GetRemainingTTL()
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("past expiry clamps to zero", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}

		assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := &Claims{}

		assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
	})
}
