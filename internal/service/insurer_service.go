package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InsurerService struct {
	repo     insurer.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewInsurerService(repo insurer.Repository, auditSvc *AuditService, log *zap.Logger) *InsurerService {
	return &InsurerService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *InsurerService) CreateInsurer(ctx context.Context, cmd *insurer.CreateInsurerCommand, actor Actor) (*insurer.Insurer, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if err := validationError(insurer.ValidateRegistration(cmd)); err != nil {
		return nil, err
	}

	cnpj, err := document.New(cmd.CNPJ, document.KindCNPJ)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCNPJ(ctx, cnpj)
	if err != nil {
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, insurer.ErrInsurerAlreadyExists
	}

	email, _ := contact.NewEmail(cmd.Email)
	phone, _ := contact.NewPhone(cmd.Phone)

	i := &insurer.Insurer{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(cmd.Name),
		TradeName:          strings.TrimSpace(cmd.TradeName),
		CNPJ:               cnpj,
		RegistrationNumber: digitsOf(cmd.RegistrationNumber),
		Type:               cmd.Type,
		Status:             insurer.StatusActive,
		Phone:              string(phone),
		Email:              email.String(),
		Address:            cmd.Address,
		Plans:              []insurer.Plan{},
		Website:            cmd.Website,
		Logo:               cmd.Logo,
		ContractStartDate:  cmd.ContractStartDate,
		ContractEndDate:    cmd.ContractEndDate,
		Notes:              cmd.Notes,
	}
	for _, p := range cmd.Plans {
		if err := i.AddPlan(p); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, i); err != nil {
		if errors.Is(err, insurer.ErrInsurerAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create insurer", zap.Error(err))
		return nil, fmt.Errorf("creating insurer: %w", err)
	}

	s.audit(actor, domain.ActionCreate, i.ID, "")
	return i, nil
}

func (s *InsurerService) GetInsurer(ctx context.Context, id uuid.UUID) (*insurer.Insurer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InsurerService) ListInsurers(ctx context.Context, q *insurer.ListInsurersQuery) (*insurer.PagedInsurers, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *InsurerService) UpdateInsurer(ctx context.Context, id uuid.UUID, cmd *insurer.UpdateInsurerCommand, actor Actor) (*insurer.Insurer, error) {
	var errs []string
	if cmd.Email != nil && !contact.IsValidEmail(*cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if cmd.Phone != nil && !contact.IsValidPhone(*cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}
	if cmd.Address != nil {
		for _, f := range cmd.Address.Missing() {
			errs = append(errs, "address."+f+" is required")
		}
	}
	if cmd.Name != nil && len([]rune(strings.TrimSpace(*cmd.Name))) < 3 {
		errs = append(errs, "name must have at least 3 characters")
	}

	return s.mutate(ctx, id, actor, `{"action":"updated"}`, func(i *insurer.Insurer) error {
		if err := validationError(errs); err != nil {
			return err
		}
		if cmd.Phone != nil {
			normalized := digitsOf(*cmd.Phone)
			cmd.Phone = &normalized
		}
		i.Apply(cmd)
		if i.ContractStartDate != nil && i.ContractEndDate != nil && i.ContractEndDate.Before(*i.ContractStartDate) {
			return &ValidationError{Fields: []string{"contract_end_date cannot be before contract_start_date"}}
		}
		return nil
	})
}

func (s *InsurerService) DeactivateInsurer(ctx context.Context, id uuid.UUID, actor Actor) (*insurer.Insurer, error) {
	return s.mutate(ctx, id, actor, `{"status":"INACTIVE"}`, func(i *insurer.Insurer) error {
		return i.Deactivate()
	})
}

func (s *InsurerService) ActivateInsurer(ctx context.Context, id uuid.UUID, actor Actor) (*insurer.Insurer, error) {
	return s.mutate(ctx, id, actor, `{"status":"ACTIVE"}`, func(i *insurer.Insurer) error {
		i.Activate()
		return nil
	})
}

func (s *InsurerService) SuspendInsurer(ctx context.Context, id uuid.UUID, actor Actor) (*insurer.Insurer, error) {
	return s.mutate(ctx, id, actor, `{"status":"SUSPENDED"}`, func(i *insurer.Insurer) error {
		i.Suspend()
		return nil
	})
}

func (s *InsurerService) AddPlan(ctx context.Context, id uuid.UUID, plan insurer.Plan, actor Actor) (*insurer.Insurer, error) {
	if strings.TrimSpace(plan.Name) == "" {
		return nil, &ValidationError{Fields: []string{"plan name is required"}}
	}
	return s.mutate(ctx, id, actor, `{"action":"plan_added"}`, func(i *insurer.Insurer) error {
		return i.AddPlan(plan)
	})
}

func (s *InsurerService) RemovePlan(ctx context.Context, id, planID uuid.UUID, actor Actor) (*insurer.Insurer, error) {
	return s.mutate(ctx, id, actor, fmt.Sprintf(`{"action":"plan_removed","plan_id":%q}`, planID), func(i *insurer.Insurer) error {
		return i.RemovePlan(planID)
	})
}

func (s *InsurerService) mutate(ctx context.Context, id uuid.UUID, actor Actor, changes string, apply func(*insurer.Insurer) error) (*insurer.Insurer, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(i); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, fmt.Errorf("updating insurer: %w", err)
	}

	s.audit(actor, domain.ActionUpdate, id, changes)
	return i, nil
}

func (s *InsurerService) audit(actor Actor, action domain.AuditAction, id uuid.UUID, changes string) {
	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       action,
		ResourceType: "insurer",
		ResourceID:   id.String(),
		Changes:      changes,
	})
}

func digitsOf(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
