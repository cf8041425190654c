package catalog

import (
	"context"
	"errors"

	"github.com/xterics/xterics/backend/api/internal/models"
)

// ErrNotFound is returned for lookups of missing catalog entities.
var ErrNotFound = errors.New("not found")

const defaultFeaturedLimit = 4

// Service exposes the public catalog (design services, portfolio) and the
// admin mutations behind it.
type Service struct {
	services  ServiceRepository
	portfolio PortfolioRepository
}

func NewService(services ServiceRepository, portfolio PortfolioRepository) *Service {
	return &Service{services: services, portfolio: portfolio}
}

func (s *Service) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.services.ListActive(ctx)
}

func (s *Service) GetService(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrNotFound
	}
	return svc, nil
}

func (s *Service) ListPortfolio(ctx context.Context) ([]models.PortfolioProject, error) {
	return s.portfolio.ListPublished(ctx)
}

func (s *Service) FeaturedPortfolio(ctx context.Context, limit int) ([]models.PortfolioProject, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.portfolio.ListFeatured(ctx, limit)
}

func (s *Service) GetProject(ctx context.Context, id uint) (*models.PortfolioProject, error) {
	p, err := s.portfolio.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) CreateProject(ctx context.Context, p *models.PortfolioProject) error {
	return s.portfolio.CreateProject(ctx, p)
}

// ProjectUpdate carries the optional fields of a partial project update.
type ProjectUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	IsPublished *bool   `json:"isPublished"`
	IsFeatured  *bool   `json:"isFeatured"`
}

func (s *Service) UpdateProject(ctx context.Context, id uint, upd ProjectUpdate) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.IsPublished != nil {
		updates["is_published"] = *upd.IsPublished
	}
	if upd.IsFeatured != nil {
		updates["is_featured"] = *upd.IsFeatured
	}
	if len(updates) == 0 {
		return nil
	}
	return s.portfolio.UpdateProject(ctx, id, updates)
}

func (s *Service) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	return s.portfolio.DeleteProject(ctx, id)
}

func (s *Service) AddImage(ctx context.Context, projectID uint, url, objectKey, caption string) (*models.PortfolioImage, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	img := &models.PortfolioImage{ProjectID: projectID, URL: url, ObjectKey: objectKey, Caption: caption}
	if err := s.portfolio.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// DeleteImage removes the image row and returns it so the caller can also
// drop the stored object.
func (s *Service) DeleteImage(ctx context.Context, id uint) (*models.PortfolioImage, error) {
	img, err := s.portfolio.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrNotFound
	}
	if err := s.portfolio.DeleteImage(ctx, id); err != nil {
		return nil, err
	}
	return img, nil
}
