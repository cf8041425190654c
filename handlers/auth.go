package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xterics/xterics/backend/api/internal/auth"
	"github.com/xterics/xterics/backend/api/internal/config"
	"github.com/xterics/xterics/backend/api/internal/oauth"
	"github.com/xterics/xterics/backend/api/internal/sessions"
	"github.com/xterics/xterics/backend/api/internal/users"
	"github.com/xterics/xterics/backend/api/pkg/logger"
	"github.com/xterics/xterics/backend/api/pkg/metrics"
	"github.com/xterics/xterics/backend/api/pkg/middleware"
)

const stateCookieName = "oauth_state"

// stateCookieMaxAge bounds how long a login redirect stays valid.
const stateCookieMaxAge = 600

// AuthHandler serves the Google OAuth flow and the session endpoints.
type AuthHandler struct {
	cfg      *config.Config
	provider oauth.Provider
	tokens   *sessions.Service
	usersSvc *users.Service
	gate     *auth.Gate
}

func NewAuthHandler(cfg *config.Config, provider oauth.Provider, tokens *sessions.Service, u *users.Service, gate *auth.Gate) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: provider, tokens: tokens, usersSvc: u, gate: gate}
}

// Register wires the oauth endpoints and /api/auth/me.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	o := rg.Group("/api/oauth")
	o.GET("/login", h.Login)
	o.GET("/callback", h.Callback)
	o.POST("/logout", h.Logout)

	rg.GET("/api/auth/me", middleware.OptionalSession(h.gate), h.Me)
}

// Login stores an anti-forgery state cookie and redirects to the provider.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth is not configured"})
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", h.cfg.IsProduction(), true)
	c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// Callback finishes the login: state check, code exchange, profile fetch,
// user upsert, session cookie. The session cookie is only set once every
// upstream call has succeeded; no partial session can exist.
func (h *AuthHandler) Callback(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth is not configured"})
		return
	}
	code := c.Query("code")
	state := c.Query("state")
	storedState, err := c.Cookie(stateCookieName)
	if code == "" || state == "" || err != nil || state != storedState {
		logger.Warnf("oauth: callback state mismatch or missing code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state or code"})
		return
	}

	ctx := c.Request.Context()
	tok, err := h.provider.Exchange(ctx, code)
	if err != nil {
		logger.Errorf("oauth: code exchange failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth callback failed"})
		return
	}
	profile, err := h.provider.FetchProfile(ctx, tok)
	if err != nil {
		logger.Errorf("oauth: profile fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth callback failed"})
		return
	}

	if _, err := h.usersSvc.Upsert(ctx, users.Profile{
		OpenID:      profile.Sub,
		Name:        profile.Name,
		Email:       profile.Email,
		LoginMethod: "google",
	}); err != nil {
		logger.Errorf("oauth: user upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth callback failed"})
		return
	}

	session, err := h.tokens.Issue(profile.Sub, sessions.IssueOptions{Email: profile.Email, Name: profile.Name})
	if err != nil {
		logger.Errorf("oauth: session issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth callback failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, session, int(h.cfg.Session.TTL.Seconds()), "/", "", h.cfg.IsProduction(), true)
	c.SetCookie(stateCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
	metrics.LoginsTotal.Inc()
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie. Tokens are stateless; a leaked token
// stays valid until its embedded expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated user, or null for anonymous requests.
func (h *AuthHandler) Me(c *gin.Context) {
	if u, ok := middleware.UserFrom(c); ok {
		c.JSON(http.StatusOK, gin.H{"user": u})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": nil})
}
