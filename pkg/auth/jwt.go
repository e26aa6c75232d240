// Package auth issues and verifies the HS256 token pairs used by the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenUse string

const (
	useAccess  tokenUse = "access"
	useRefresh tokenUse = "refresh"
)

// clockSkew is tolerated on exp, nbf and iat.
const clockSkew = 10 * time.Second

var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenTypeMismatch = errors.New("wrong token type")
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	Use       tokenUse   `json:"use"`
}

type JWTManager struct {
	key    []byte
	cfg    config.JWTConfig
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	m := &JWTManager{key: []byte(cfg.Secret), cfg: cfg, now: time.Now}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	return m
}

// GenerateTokenPair signs both tokens with one issue time. Each gets its own jti,
// which is what refresh rotation revokes.
func (m *JWTManager) GenerateTokenPair(claims *domain.Claims) (*domain.TokenPair, error) {
	now := m.now()

	access, err := m.sign(claims, useAccess, now, m.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := m.sign(claims, useRefresh, now, m.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(m.cfg.AccessTokenTTL),
		TokenType:    "Bearer",
	}, nil
}

func (m *JWTManager) ValidateAccessToken(raw string) (*domain.Claims, error) {
	return m.parse(raw, useAccess)
}

func (m *JWTManager) ValidateRefreshToken(raw string) (*domain.Claims, error) {
	return m.parse(raw, useRefresh)
}

func (m *JWTManager) sign(claims *domain.Claims, use tokenUse, now time.Time, ttl time.Duration) (string, error) {
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.cfg.Issuer,
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     claims.Email,
		Role:      string(claims.Role),
		PatientID: claims.PatientID,
		Use:       use,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(m.key)
}

func (m *JWTManager) parse(raw string, want tokenUse) (*domain.Claims, error) {
	var tc tokenClaims
	_, err := m.parser.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, ErrTokenInvalid
	}

	if tc.Use != want {
		return nil, ErrTokenTypeMismatch
	}
	// single-use refresh depends on the jti
	if tc.ID == "" {
		return nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &domain.Claims{
		UserID:    userID,
		Email:     tc.Email,
		Role:      domain.Role(tc.Role),
		PatientID: tc.PatientID,
		TokenID:   tc.ID,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}
