package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xterics/xterics/backend/api/internal/models"
)

// Repository persists standard and custom orders.
type Repository interface {
	Create(ctx context.Context, o *models.Order) error
	// GetByID returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error

	CreateCustom(ctx context.Context, o *models.CustomOrder) error
	GetCustomByID(ctx context.Context, id uint) (*models.CustomOrder, error)
	ListCustomByUser(ctx context.Context, userID uint) ([]models.CustomOrder, error)
	ListCustomAll(ctx context.Context) ([]models.CustomOrder, error)
	UpdateCustom(ctx context.Context, id uint, updates map[string]interface{}) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).Updates(updates).Error
}

func (r *GormRepository) CreateCustom(ctx context.Context, o *models.CustomOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *GormRepository) GetCustomByID(ctx context.Context, id uint) (*models.CustomOrder, error) {
	var o models.CustomOrder
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) ListCustomByUser(ctx context.Context, userID uint) ([]models.CustomOrder, error) {
	var out []models.CustomOrder
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormRepository) ListCustomAll(ctx context.Context) ([]models.CustomOrder, error) {
	var out []models.CustomOrder
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormRepository) UpdateCustom(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.CustomOrder{}).
		Where("id = ?", id).Updates(updates).Error
}
