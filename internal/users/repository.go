package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xterics/xterics/backend/api/internal/models"
)

// Repository defines persistence operations for users
type Repository interface {
	// UpsertByOpenID inserts the user or, on openId conflict, refreshes the
	// profile columns. Role is only written when the incoming row elevates to
	// admin so a manually granted role is never downgraded by a login.
	UpsertByOpenID(ctx context.Context, u *models.User) (*models.User, error)
	// GetByOpenID returns (nil, nil) when no row exists.
	GetByOpenID(ctx context.Context, openID string) (*models.User, error)
	TouchLastSignedIn(ctx context.Context, openID string, at time.Time) error
}

// GormRepository implements Repository on a Postgres-backed GORM handle.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) UpsertByOpenID(ctx context.Context, u *models.User) (*models.User, error) {
	if u.LastSignedIn.IsZero() {
		u.LastSignedIn = time.Now().UTC()
	}
	cols := []string{"name", "email", "login_method", "last_signed_in", "updated_at"}
	if u.Role == models.RoleAdmin {
		cols = append(cols, "role")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	// re-read so callers always see the stored row, ID included
	return r.GetByOpenID(ctx, u.OpenID)
}

func (r *GormRepository) GetByOpenID(ctx context.Context, openID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("open_id = ?", openID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) TouchLastSignedIn(ctx context.Context, openID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("open_id = ?", openID).
		Update("last_signed_in", at).Error
}
