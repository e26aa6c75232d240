package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ service.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) UpdateLoginState(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"failed_login_count": u.FailedLoginCount,
		"locked_until":       u.LockedUntil,
		"last_login_at":      u.LastLoginAt,
	}).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":       hash,
		"password_changed_at": changedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, q *domain.ListUsersQuery) (*domain.PagedUsers, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Scopes(notDeleted)
	if q.Role != nil {
		tx = tx.Where("role = ?", *q.Role)
	}
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		tx = tx.Where("full_name ILIKE ? OR email ILIKE ?", p, p)
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0)
	if err := tx.Order("created_at DESC").Scopes(paginate(q.Page, q.PageSize)).Find(&users).Error; err != nil {
		return nil, err
	}

	return &domain.PagedUsers{
		Users:      users,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}
