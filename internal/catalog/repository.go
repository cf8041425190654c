package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xterics/xterics/backend/api/internal/models"
)

// ServiceRepository provides read access to the purchasable service catalog.
type ServiceRepository interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	// GetByID returns (nil, nil) when the service does not exist.
	GetByID(ctx context.Context, id uint) (*models.Service, error)
}

// PortfolioRepository persists portfolio projects and their images.
type PortfolioRepository interface {
	ListPublished(ctx context.Context) ([]models.PortfolioProject, error)
	ListFeatured(ctx context.Context, limit int) ([]models.PortfolioProject, error)
	GetProject(ctx context.Context, id uint) (*models.PortfolioProject, error)
	CreateProject(ctx context.Context, p *models.PortfolioProject) error
	UpdateProject(ctx context.Context, id uint, updates map[string]interface{}) error
	DeleteProject(ctx context.Context, id uint) error
	AddImage(ctx context.Context, img *models.PortfolioImage) error
	GetImage(ctx context.Context, id uint) (*models.PortfolioImage, error)
	DeleteImage(ctx context.Context, id uint) error
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&out).Error
	return out, err
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

type GormPortfolioRepository struct {
	db *gorm.DB
}

func NewGormPortfolioRepository(db *gorm.DB) *GormPortfolioRepository {
	return &GormPortfolioRepository{db: db}
}

func (r *GormPortfolioRepository) ListPublished(ctx context.Context) ([]models.PortfolioProject, error) {
	var out []models.PortfolioProject
	err := r.db.WithContext(ctx).Preload("Images").
		Where("is_published = ?", true).Find(&out).Error
	return out, err
}

func (r *GormPortfolioRepository) ListFeatured(ctx context.Context, limit int) ([]models.PortfolioProject, error) {
	var out []models.PortfolioProject
	err := r.db.WithContext(ctx).Preload("Images").
		Where("is_published = ? AND is_featured = ?", true, true).
		Limit(limit).Find(&out).Error
	return out, err
}

func (r *GormPortfolioRepository) GetProject(ctx context.Context, id uint) (*models.PortfolioProject, error) {
	var p models.PortfolioProject
	err := r.db.WithContext(ctx).Preload("Images").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPortfolioRepository) CreateProject(ctx context.Context, p *models.PortfolioProject) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormPortfolioRepository) UpdateProject(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.PortfolioProject{}).
		Where("id = ?", id).Updates(updates).Error
}

// DeleteProject removes the project and its image rows in one transaction,
// images first.
func (r *GormPortfolioRepository) DeleteProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.PortfolioImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PortfolioProject{}, id).Error
	})
}

func (r *GormPortfolioRepository) AddImage(ctx context.Context, img *models.PortfolioImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *GormPortfolioRepository) GetImage(ctx context.Context, id uint) (*models.PortfolioImage, error) {
	var img models.PortfolioImage
	err := r.db.WithContext(ctx).First(&img, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *GormPortfolioRepository) DeleteImage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PortfolioImage{}, id).Error
}
