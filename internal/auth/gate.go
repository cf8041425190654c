package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/internal/sessions"
	"github.com/xterics/xterics/backend/api/internal/users"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

// Gate converts an inbound Cookie header into an authenticated user record,
// provisioning the user just-in-time on first sight of a valid token.
type Gate struct {
	tokens     *sessions.Service
	users      *users.Service
	cookieName string
}

func NewGate(tokens *sessions.Service, usersSvc *users.Service, cookieName string) *Gate {
	return &Gate{tokens: tokens, users: usersSvc, cookieName: cookieName}
}

// Authenticate resolves the session cookie to a user. Every failure is a
// typed Forbidden error with a generic message; storage causes are logged
// here and never leak to the client. No storage call happens before the
// token verifies.
func (g *Gate) Authenticate(ctx context.Context, cookieHeader string) (*models.User, error) {
	raw := cookieValue(cookieHeader, g.cookieName)
	if raw == "" {
		return nil, Forbidden("missing session")
	}
	session := g.tokens.Verify(raw)
	if session == nil {
		return nil, Forbidden("invalid session")
	}

	user, err := g.users.GetByOpenID(ctx, session.OpenID)
	if err != nil {
		logger.Errorf("auth: user lookup failed: %v", err)
		return nil, Forbidden("invalid session")
	}
	if user == nil {
		user, err = g.users.Upsert(ctx, users.Profile{
			OpenID:      session.OpenID,
			Name:        session.Name,
			Email:       session.Email,
			LoginMethod: "google",
		})
		if err != nil {
			logger.Errorf("auth: failed to create user: %v", err)
			return nil, Forbidden("failed to create user")
		}
	}
	if user == nil {
		return nil, Forbidden("user not found")
	}

	// second touch is idempotent for a just-created user; audit freshness only
	now := time.Now().UTC()
	if err := g.users.TouchLastSignedIn(ctx, user.OpenID); err != nil {
		logger.Warnf("auth: lastSignedIn refresh failed for %s: %v", user.OpenID, err)
	} else {
		user.LastSignedIn = now
	}
	return user, nil
}

// cookieValue pulls a single cookie out of a raw Cookie header using the
// stdlib parser.
func cookieValue(cookieHeader, name string) string {
	if cookieHeader == "" {
		return ""
	}
	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	c, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
