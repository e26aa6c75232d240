package postgres

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ insurer.Repository = (*InsurerRepository)(nil)

type InsurerRepository struct {
	db *gorm.DB
}

func NewInsurerRepository(db *gorm.DB) *InsurerRepository {
	return &InsurerRepository{db: db}
}

func (r *InsurerRepository) Create(ctx context.Context, i *insurer.Insurer) error {
	if err := r.db.WithContext(ctx).Create(i).Error; err != nil {
		if isUniqueViolation(err) {
			return insurer.ErrInsurerAlreadyExists
		}
		return err
	}
	return nil
}

func (r *InsurerRepository) GetByID(ctx context.Context, id uuid.UUID) (*insurer.Insurer, error) {
	var i insurer.Insurer
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&i).Error
	if err != nil {
		return nil, notFound(err, insurer.ErrInsurerNotFound)
	}
	return &i, nil
}

func (r *InsurerRepository) Update(ctx context.Context, i *insurer.Insurer) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InsurerRepository) List(ctx context.Context, q *insurer.ListInsurersQuery) (*insurer.PagedInsurers, error) {
	tx := r.db.WithContext(ctx).Model(&insurer.Insurer{}).Scopes(notDeleted)
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		tx = tx.Where("name ILIKE ? OR trade_name ILIKE ?", p, p)
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	insurers := make([]*insurer.Insurer, 0)
	if err := tx.Order("name ASC").Scopes(paginate(q.Page, q.PageSize)).Find(&insurers).Error; err != nil {
		return nil, err
	}

	return &insurer.PagedInsurers{
		Insurers:   insurers,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *InsurerRepository) ExistsByCNPJ(ctx context.Context, cnpj document.Document) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&insurer.Insurer{}).
		Scopes(notDeleted).
		Where("cnpj = ?", cnpj).
		Count(&count).Error
	return count > 0, err
}
