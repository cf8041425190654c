package users

import (
	"context"
	"time"

	"github.com/xterics/xterics/backend/api/internal/models"
)

// Profile is the identity-provider view of a user handed to Upsert.
type Profile struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
}

// Service encapsulates user provisioning. The configured owner openId is
// elevated to admin at upsert time; every other login keeps the default role.
type Service struct {
	repo        Repository
	ownerOpenID string
}

func NewService(r Repository, ownerOpenID string) *Service {
	return &Service{repo: r, ownerOpenID: ownerOpenID}
}

// Upsert creates or refreshes the user row for the given profile and stamps
// lastSignedIn. Returns nil when the profile carries no openId.
func (s *Service) Upsert(ctx context.Context, p Profile) (*models.User, error) {
	if p.OpenID == "" {
		return nil, nil
	}
	u := &models.User{
		OpenID:       p.OpenID,
		Name:         p.Name,
		Email:        p.Email,
		LoginMethod:  p.LoginMethod,
		Role:         models.RoleUser,
		LastSignedIn: time.Now().UTC(),
	}
	if s.ownerOpenID != "" && p.OpenID == s.ownerOpenID {
		u.Role = models.RoleAdmin
	}
	return s.repo.UpsertByOpenID(ctx, u)
}

func (s *Service) GetByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return s.repo.GetByOpenID(ctx, openID)
}

// TouchLastSignedIn refreshes the audit timestamp for an already resolved user.
func (s *Service) TouchLastSignedIn(ctx context.Context, openID string) error {
	return s.repo.TouchLastSignedIn(ctx, openID, time.Now().UTC())
}
