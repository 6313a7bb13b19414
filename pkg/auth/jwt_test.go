package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
)

func testUser() *model.User {
	return &model.User{Base: model.Base{ID: uuid.New()}, Name: "Ana", Email: "ana@example.com"}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", "clinic-api", time.Hour)
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "clinic-api", claims.Issuer)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService("secret", "clinic-api", time.Hour)
	user := testUser()

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other", "clinic-api", time.Hour)
		token, err := other.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("secret", "someone-else", time.Hour)
		token, err := other.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issued := NewJWTService("secret", "clinic-api", time.Hour).(*jwtService)
		issued.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := issued.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, model.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "clinic-api"},
			UserID:           user.ID,
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
