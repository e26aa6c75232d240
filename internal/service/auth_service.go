package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/tokenstore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrTokenRevoked       = errors.New("refresh token has been revoked")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
)

const maxFailedAttempts = 5

const lockDuration = 15 * time.Minute

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, q *domain.ListUsersQuery) (*domain.PagedUsers, error)
	// UpdateLoginState saves the failed counter, lock and last login columns only.
	UpdateLoginState(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	tokens     tokenstore.Store
	auditSvc   *AuditService
	log        *zap.Logger

	bcryptCost int
	now        func() time.Time
}

func NewAuthService(
	userRepo UserRepository,
	jwtManager *auth.JWTManager,
	tokens tokenstore.Store,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		tokens:     tokens,
		auditSvc:   auditSvc,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("loading user: %w", err)
		}
		// Spend a bcrypt round anyway so response time does not reveal unknown emails.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.FailedLoginCount++
		if user.FailedLoginCount >= maxFailedAttempts {
			until := now.Add(lockDuration)
			user.LockedUntil = &until
			user.FailedLoginCount = 0
		}
		if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
			s.log.Error("failed to record login attempt", zap.Error(err))
		}
		s.log.Warn("failed login attempt",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	user.FailedLoginCount = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
		s.log.Error("failed to record login", zap.Error(err))
	}

	pair, err := s.jwtManager.GenerateTokenPair(claimsFor(user))
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        Actor{UserID: user.ID, Role: user.Role, IP: ip},
		Action:       domain.ActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
	})

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken rotates the pair: the presented refresh token is revoked and cannot be reused.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Claiming the token ID is the single-use check.
	already, err := s.tokens.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now()))
	if err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	if already {
		s.log.Warn("revoked refresh token presented", zap.String("user_id", claims.UserID.String()))
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(claimsFor(user))
}

// Logout revokes the caller's refresh token. Access tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, actor Actor) error {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidCredentials
	}
	if claims.UserID != actor.UserID {
		return ErrForbidden
	}

	if _, err := s.tokens.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionLogout,
		ResourceType: "user",
		ResourceID:   actor.UserID.String(),
	})
	return nil
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash), s.now())
}

func claimsFor(u *domain.User) *domain.Claims {
	return &domain.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		PatientID: u.PatientID,
	}
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return ErrWeakPassword
	}
	return nil
}
