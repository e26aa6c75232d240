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
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProviderService struct {
	repo        provider.Repository
	insurerRepo insurer.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewProviderService(repo provider.Repository, insurerRepo insurer.Repository, auditSvc *AuditService, log *zap.Logger) *ProviderService {
	return &ProviderService{repo: repo, insurerRepo: insurerRepo, auditSvc: auditSvc, log: log}
}

// CreateProvider registers a provider as PENDING_APPROVAL.
func (s *ProviderService) CreateProvider(ctx context.Context, cmd *provider.CreateProviderCommand, actor Actor) (*provider.Provider, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if err := validationError(provider.ValidateRegistration(cmd)); err != nil {
		return nil, err
	}

	doc, err := document.Parse(cmd.Document)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, provider.ErrProviderAlreadyExists
	}

	for _, id := range cmd.AcceptedInsurers {
		if _, err := s.insurerRepo.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("verifying insurer %s: %w", id, err)
		}
	}

	email, _ := contact.NewEmail(cmd.Email)
	phone, _ := contact.NewPhone(cmd.Phone)

	p := &provider.Provider{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(cmd.Name),
		TradeName:        strings.TrimSpace(cmd.TradeName),
		Type:             cmd.Type,
		Status:           provider.StatusPendingApproval,
		Document:         doc,
		Credentials:      cmd.Credentials,
		Specialties:      cmd.Specialties,
		Phone:            string(phone),
		Email:            email.String(),
		Address:          cmd.Address,
		Services:         make([]provider.Service, 0, len(cmd.Services)),
		AcceptedInsurers: []uuid.UUID{},
		Website:          cmd.Website,
		WorkingHours:     cmd.WorkingHours,
		Logo:             cmd.Logo,
		Capacity:         cmd.Capacity,
		HasEmergency:     cmd.HasEmergency,
		Notes:            cmd.Notes,
	}
	for _, svc := range cmd.Services {
		if svc.ID == uuid.Nil {
			svc.ID = uuid.New()
		}
		p.Services = append(p.Services, svc)
	}
	for _, id := range cmd.AcceptedInsurers {
		p.AddInsurer(id)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, provider.ErrProviderAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create provider", zap.Error(err))
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	s.audit(actor, domain.ActionCreate, p.ID, "")
	return p, nil
}

func (s *ProviderService) GetProvider(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProviderService) ListProviders(ctx context.Context, q *provider.ListProvidersQuery) (*provider.PagedProviders, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *ProviderService) UpdateProvider(ctx context.Context, id uuid.UUID, cmd *provider.UpdateProviderCommand, actor Actor) (*provider.Provider, error) {
	var errs []string
	if cmd.Email != nil && !contact.IsValidEmail(*cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if cmd.Phone != nil && !contact.IsValidPhone(*cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}
	if cmd.Specialties != nil {
		for _, sp := range *cmd.Specialties {
			if !sp.IsValid() {
				errs = append(errs, "specialty "+string(sp)+" is invalid")
			}
		}
	}

	return s.mutate(ctx, id, actor, `{"action":"updated"}`, func(p *provider.Provider) error {
		if err := validationError(errs); err != nil {
			return err
		}
		if cmd.Phone != nil {
			normalized := digitsOf(*cmd.Phone)
			cmd.Phone = &normalized
		}
		return p.Apply(cmd)
	})
}

func (s *ProviderService) ApproveProvider(ctx context.Context, id uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, `{"status":"ACTIVE"}`, func(p *provider.Provider) error {
		return p.Approve()
	})
}

func (s *ProviderService) ActivateProvider(ctx context.Context, id uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, `{"status":"ACTIVE"}`, func(p *provider.Provider) error {
		p.Activate()
		return nil
	})
}

func (s *ProviderService) SuspendProvider(ctx context.Context, id uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, `{"status":"SUSPENDED"}`, func(p *provider.Provider) error {
		p.Suspend()
		return nil
	})
}

func (s *ProviderService) DeactivateProvider(ctx context.Context, id uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, `{"status":"INACTIVE"}`, func(p *provider.Provider) error {
		return p.Deactivate()
	})
}

func (s *ProviderService) AddService(ctx context.Context, id uuid.UUID, svc provider.Service, actor Actor) (*provider.Provider, error) {
	if strings.TrimSpace(svc.Name) == "" {
		return nil, &ValidationError{Fields: []string{"service name is required"}}
	}
	return s.mutate(ctx, id, actor, `{"action":"service_added"}`, func(p *provider.Provider) error {
		return p.AddService(svc)
	})
}

func (s *ProviderService) RemoveService(ctx context.Context, id, serviceID uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, `{"action":"service_removed"}`, func(p *provider.Provider) error {
		return p.RemoveService(serviceID)
	})
}

func (s *ProviderService) AddInsurer(ctx context.Context, id, insurerID uuid.UUID, actor Actor) (*provider.Provider, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.insurerRepo.GetByID(ctx, insurerID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, actor, fmt.Sprintf(`{"insurer_added":%q}`, insurerID), func(p *provider.Provider) error {
		p.AddInsurer(insurerID)
		return nil
	})
}

func (s *ProviderService) RemoveInsurer(ctx context.Context, id, insurerID uuid.UUID, actor Actor) (*provider.Provider, error) {
	return s.mutate(ctx, id, actor, fmt.Sprintf(`{"insurer_removed":%q}`, insurerID), func(p *provider.Provider) error {
		p.RemoveInsurer(insurerID)
		return nil
	})
}

func (s *ProviderService) mutate(ctx context.Context, id uuid.UUID, actor Actor, changes string, apply func(*provider.Provider) error) (*provider.Provider, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating provider: %w", err)
	}

	s.audit(actor, domain.ActionUpdate, id, changes)
	return p, nil
}

func (s *ProviderService) audit(actor Actor, action domain.AuditAction, id uuid.UUID, changes string) {
	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       action,
		ResourceType: "provider",
		ResourceID:   id.String(),
		Changes:      changes,
	})
}
