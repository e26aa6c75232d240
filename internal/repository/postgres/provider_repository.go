package postgres

import (
	"context"
	"encoding/json"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ provider.Repository = (*ProviderRepository)(nil)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return provider.ErrProviderAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	var p provider.Provider
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err, provider.ErrProviderNotFound)
	}
	return &p, nil
}

func (r *ProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProviderRepository) List(ctx context.Context, q *provider.ListProvidersQuery) (*provider.PagedProviders, error) {
	tx := r.db.WithContext(ctx).Model(&provider.Provider{}).Scopes(notDeleted)
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Specialty != nil {
		// specialties is a JSON array column.
		needle, err := json.Marshal([]provider.Specialty{*q.Specialty})
		if err != nil {
			return nil, err
		}
		tx = tx.Where("specialties::jsonb @> ?::jsonb", string(needle))
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	providers := make([]*provider.Provider, 0)
	if err := tx.Order("name ASC").Scopes(paginate(q.Page, q.PageSize)).Find(&providers).Error; err != nil {
		return nil, err
	}

	return &provider.PagedProviders{
		Providers:  providers,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *ProviderRepository) ExistsByDocument(ctx context.Context, doc document.Document) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&provider.Provider{}).
		Scopes(notDeleted).
		Where("document = ?", doc).
		Count(&count).Error
	return count > 0, err
}
