package users

import (
	"context"
	"testing"
	"time"

	"github.com/xterics/xterics/backend/api/internal/models"
)

type fakeRepo struct {
	lastUpsert *models.User
	touched    map[string]time.Time
}

func (f *fakeRepo) UpsertByOpenID(ctx context.Context, u *models.User) (*models.User, error) {
	f.lastUpsert = u
	now := time.Now().UTC()
	ret := *u
	ret.ID = 42
	ret.CreatedAt = now
	ret.UpdatedAt = now
	return &ret, nil
}

func (f *fakeRepo) GetByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return nil, nil
}

func (f *fakeRepo) TouchLastSignedIn(ctx context.Context, openID string, at time.Time) error {
	if f.touched == nil {
		f.touched = map[string]time.Time{}
	}
	f.touched[openID] = at
	return nil
}

func TestUpsertDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, "owner-sub")
	ctx := context.Background()

	before := time.Now().UTC()
	u, err := svc.Upsert(ctx, Profile{OpenID: "sub-123", Email: "x@example.com", Name: "X User", LoginMethod: "google"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.OpenID != "sub-123" || u.Email != "x@example.com" || u.Name != "X User" {
		t.Fatalf("unexpected profile: %+v", u)
	}
	if u.Role != models.RoleUser {
		t.Fatalf("ordinary login must keep default role, got %q", u.Role)
	}
	if u.ID == 0 {
		t.Fatal("expected returned user to carry the repo-assigned ID")
	}
	if repo.lastUpsert.LastSignedIn.Before(before) {
		t.Fatalf("lastSignedIn not stamped: %v", repo.lastUpsert.LastSignedIn)
	}
}

func TestUpsertOwnerElevation(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, "owner-sub")

	u, err := svc.Upsert(context.Background(), Profile{OpenID: "owner-sub", LoginMethod: "google"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("owner openId must be elevated to admin, got %q", u.Role)
	}

	// no owner configured: nobody is elevated
	svc2 := NewService(&fakeRepo{}, "")
	u2, _ := svc2.Upsert(context.Background(), Profile{OpenID: "owner-sub"})
	if u2.Role != models.RoleUser {
		t.Fatalf("elevation without configured owner: %q", u2.Role)
	}
}

func TestUpsertMissingOpenID(t *testing.T) {
	svc := NewService(&fakeRepo{}, "")
	u, err := svc.Upsert(context.Background(), Profile{Email: "y@e.com"})
	if err != nil {
		t.Fatalf("unexpected error on missing openId: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil when openId missing, got: %+v", u)
	}
}

func TestTouchLastSignedIn(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, "")
	if err := svc.TouchLastSignedIn(context.Background(), "sub-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.touched["sub-9"]; !ok {
		t.Fatal("expected repository touch for sub-9")
	}
}
