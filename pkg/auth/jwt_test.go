package auth

import (
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-with-enough-length-000",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "cuidarplus-test",
	})
}

func TestTokenPair_RoundTrip(t *testing.T) {
	m := testManager()
	claims := &domain.Claims{UserID: uuid.New(), Email: "ana@example.com", Role: domain.RoleCaregiver}

	pair, err := m.GenerateTokenPair(claims)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	access, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, access.UserID)
	assert.Equal(t, domain.RoleCaregiver, access.Role)
	assert.NotEmpty(t, access.TokenID)

	refresh, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}

func TestValidate_TypeMismatch(t *testing.T) {
	m := testManager()
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestValidate_Rejects(t *testing.T) {
	m := testManager()
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{Secret: "another-secret", Issuer: "cuidarplus-test", AccessTokenTTL: time.Minute})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// HS256 only
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "cuidarplus-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Expired(t *testing.T) {
	m := NewJWTManager(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: -time.Minute,
		Issuer:         "cuidarplus-test",
	})
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleFamily})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_ClockSkew(t *testing.T) {
	m := testManager()
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleCaregiver})
	require.NoError(t, err)
	assert.Equal(t, issued.Add(15*time.Minute), pair.ExpiresAt)

	m.now = func() time.Time { return issued.Add(15*time.Minute + 5*time.Second) }
	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err, "within skew after expiry")

	m.now = func() time.Time { return issued.Add(15*time.Minute + clockSkew + time.Second) }
	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// issued by a server whose clock runs ahead
	m.now = func() time.Time { return issued.Add(-time.Minute) }
	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRefresh_RequiresTokenID(t *testing.T) {
	m := testManager()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cuidarplus-test",
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Use: useRefresh,
	})
	signed, err := tok.SignedString(m.key)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
