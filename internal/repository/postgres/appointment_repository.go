package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ appointment.Repository = (*AppointmentRepository)(nil)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, notFound(err, appointment.ErrAppointmentNotFound)
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("clinical.appointments.deleted_at IS NULL")

	if q.CaregiverID != nil {
		tx = tx.Joins("JOIN clinical.patients p ON p.id = clinical.appointments.patient_id").
			Where("p.caregiver_id = ? AND p.deleted_at IS NULL", *q.CaregiverID)
	}
	if q.PatientID != nil {
		tx = tx.Where("clinical.appointments.patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		tx = tx.Where("clinical.appointments.status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("clinical.appointments.scheduled_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("clinical.appointments.scheduled_at <= ?", *q.DateTo)
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	appts := make([]*appointment.Appointment, 0)
	err := tx.Select("clinical.appointments.*").
		Order("clinical.appointments.scheduled_at ASC").
		Scopes(paginate(q.Page, q.PageSize)).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   count,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages(count, q.PageSize),
	}, nil
}

func (r *AppointmentRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	appts := make([]*appointment.Appointment, 0)
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Where("status = ? AND NOT reminder_sent", appointment.StatusScheduled).
		Where("scheduled_at BETWEEN ? AND ?", from, to).
		Order("scheduled_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) CountByStatusBetween(ctx context.Context, from, to time.Time) (map[appointment.AppointmentStatus]int64, error) {
	var rows []struct {
		Status appointment.AppointmentStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Scopes(notDeleted).
		Select("status, COUNT(*) AS count").
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[appointment.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
