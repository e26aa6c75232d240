package postgres

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ report.Repository = (*ReportRepository)(nil)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error; err != nil {
		return nil, notFound(err, report.ErrReportNotFound)
	}
	return &rep, nil
}

func (r *ReportRepository) Update(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *ReportRepository) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	tx := r.db.WithContext(ctx).Model(&report.Report{})
	if q.GeneratedBy != nil {
		tx = tx.Where("generated_by = ?", *q.GeneratedBy)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	reports := make([]*report.Report, 0)
	// The summary payload is only returned by GetByID.
	err := tx.Omit("data").Order("created_at DESC").Scopes(paginate(q.Page, q.PageSize)).Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return &report.PagedReports{
		Reports:    reports,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *ReportRepository) ListByStatus(ctx context.Context, status report.Status) ([]*report.Report, error) {
	reports := make([]*report.Report, 0)
	err := r.db.WithContext(ctx).Omit("data").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
