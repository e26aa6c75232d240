package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo        UserRepository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger

	bcryptCost int
}

func NewUserService(repo UserRepository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		log:         log,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

func (s *UserService) CreateUser(ctx context.Context, cmd *domain.CreateUserCommand, actor Actor) (*domain.User, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}

	u, err := s.create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		Changes:      fmt.Sprintf(`{"role":%q}`, u.Role),
	})
	return u, nil
}

// BootstrapAdmin creates an admin without a caller; used once from the command line.
func (s *UserService) BootstrapAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	return s.create(ctx, &domain.CreateUserCommand{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     domain.RoleAdmin,
	})
}

func (s *UserService) create(ctx context.Context, cmd *domain.CreateUserCommand) (*domain.User, error) {
	var errs []string

	email, err := contact.NewEmail(cmd.Email)
	if err != nil {
		errs = append(errs, "email is invalid")
	}
	if !domain.ValidateFullName(cmd.FullName) {
		errs = append(errs, "full_name must have at least 3 characters")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if err := validatePasswordStrength(cmd.Password); err != nil {
		errs = append(errs, err.Error())
	}
	if cmd.Role == domain.RoleFamily && cmd.PatientID == nil {
		errs = append(errs, domain.ErrPatientLinkRequired.Error())
	}
	if err := validationError(errs); err != nil {
		return nil, err
	}

	if cmd.PatientID != nil {
		if _, err := s.patientRepo.GetByID(ctx, *cmd.PatientID); err != nil {
			return nil, fmt.Errorf("verifying patient: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email.String(),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(cmd.FullName),
		Role:         cmd.Role,
		IsActive:     true,
	}
	if cmd.Role == domain.RoleFamily {
		u.PatientID = cmd.PatientID
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

// GetUser returns the caller's own record, or any record for admins.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID, actor Actor) (*domain.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, q *domain.ListUsersQuery, actor Actor) (*domain.PagedUsers, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID, actor Actor) (*domain.User, error) {
	return s.setActive(ctx, id, actor, true)
}

func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID, actor Actor) (*domain.User, error) {
	return s.setActive(ctx, id, actor, false)
}

func (s *UserService) setActive(ctx context.Context, id uuid.UUID, actor Actor, active bool) (*domain.User, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = u.Activate()
	} else {
		err = u.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "user",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"is_active":%t}`, active),
	})
	return u, nil
}
