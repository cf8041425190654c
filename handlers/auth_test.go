package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/xterics/xterics/backend/api/internal/auth"
	"github.com/xterics/xterics/backend/api/internal/config"
	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/internal/oauth"
	"github.com/xterics/xterics/backend/api/internal/sessions"
	"github.com/xterics/xterics/backend/api/internal/users"
)

type fakeProvider struct {
	profile     *oauth.Profile
	exchangeErr error
	exchanged   []string
}

func (p *fakeProvider) AuthURL(state string) string {
	return "https://accounts.example.test/authorize?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	p.exchanged = append(p.exchanged, code)
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth2.Token{AccessToken: "at-" + code}, nil
}

func (p *fakeProvider) FetchProfile(_ context.Context, _ *oauth2.Token) (*oauth.Profile, error) {
	if p.profile == nil {
		return nil, errors.New("no profile")
	}
	return p.profile, nil
}

type memUserRepo struct {
	byOpenID map[string]*models.User
	nextID   uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byOpenID: map[string]*models.User{}}
}

func (r *memUserRepo) UpsertByOpenID(_ context.Context, u *models.User) (*models.User, error) {
	if cur, ok := r.byOpenID[u.OpenID]; ok {
		cur.Name = u.Name
		cur.Email = u.Email
		cur.LoginMethod = u.LoginMethod
		cur.LastSignedIn = u.LastSignedIn
		if u.Role == models.RoleAdmin {
			cur.Role = models.RoleAdmin
		}
		cp := *cur
		return &cp, nil
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.byOpenID[u.OpenID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) GetByOpenID(_ context.Context, openID string) (*models.User, error) {
	u, ok := r.byOpenID[openID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) TouchLastSignedIn(_ context.Context, openID string, at time.Time) error {
	if u, ok := r.byOpenID[openID]; ok {
		u.LastSignedIn = at
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Environment: "test"},
		Session: config.SessionConfig{CookieName: "xterics_session", TTL: time.Hour},
	}
}

func newAuthRouter(t *testing.T, provider oauth.Provider, repo users.Repository) (*gin.Engine, *sessions.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	tokens := sessions.NewService("test-secret", cfg.Session.TTL)
	userSvc := users.NewService(repo, "")
	gate := auth.NewGate(tokens, userSvc, cfg.Session.CookieName)

	r := gin.New()
	NewAuthHandler(cfg, provider, tokens, userSvc, gate).Register(&r.RouterGroup)
	return r, tokens
}

func findCookie(t *testing.T, res *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	parsed := (&http.Response{Header: res.Header()}).Cookies()
	for _, c := range parsed {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_SetsStateAndRedirects(t *testing.T) {
	provider := &fakeProvider{}
	r, _ := newAuthRouter(t, provider, newMemUserRepo())

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/oauth/login", nil))

	require.Equal(t, http.StatusFound, res.Code)
	state := findCookie(t, res, "oauth_state")
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
	loc := res.Header().Get("Location")
	assert.True(t, strings.HasSuffix(loc, "state="+state.Value), "redirect must carry the state cookie value, got %s", loc)
}

func TestCallback_StateMismatchRejectedBeforeExchange(t *testing.T) {
	provider := &fakeProvider{profile: &oauth.Profile{Sub: "sub-1"}}
	r, _ := newAuthRouter(t, provider, newMemUserRepo())

	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=abc&state=forged", nil)
	rq.AddCookie(&http.Cookie{Name: "oauth_state", Value: "genuine"})
	r.ServeHTTP(res, rq)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, provider.exchanged, "no upstream call on state mismatch")
	assert.Nil(t, findCookie(t, res, "xterics_session"))
}

func TestCallback_MissingCodeRejected(t *testing.T) {
	provider := &fakeProvider{}
	r, _ := newAuthRouter(t, provider, newMemUserRepo())

	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodGet, "/api/oauth/callback?state=s1", nil)
	rq.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	r.ServeHTTP(res, rq)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, provider.exchanged)
}

func TestCallback_SuccessSetsSessionAndProvisionsUser(t *testing.T) {
	repo := newMemUserRepo()
	provider := &fakeProvider{profile: &oauth.Profile{Sub: "google-sub-9", Email: "ada@example.com", Name: "Ada"}}
	r, tokens := newAuthRouter(t, provider, repo)

	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=good&state=s1", nil)
	rq.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	r.ServeHTTP(res, rq)

	require.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))

	session := findCookie(t, res, "xterics_session")
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	payload := tokens.Verify(session.Value)
	require.NotNil(t, payload)
	assert.Equal(t, "google-sub-9", payload.OpenID)

	u, err := repo.GetByOpenID(context.Background(), "google-sub-9")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "google", u.LoginMethod)

	state := findCookie(t, res, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "", state.Value, "state cookie must be cleared")
}

func TestCallback_ExchangeFailureSetsNoSession(t *testing.T) {
	provider := &fakeProvider{exchangeErr: errors.New("upstream down")}
	r, _ := newAuthRouter(t, provider, newMemUserRepo())

	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=bad&state=s1", nil)
	rq.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	r.ServeHTTP(res, rq)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Nil(t, findCookie(t, res, "xterics_session"))
}

func TestLogout_ClearsSessionCookie(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeProvider{}, newMemUserRepo())

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/oauth/logout", nil))

	require.Equal(t, http.StatusOK, res.Code)
	session := findCookie(t, res, "xterics_session")
	require.NotNil(t, session)
	assert.Equal(t, "", session.Value)
	assert.True(t, session.MaxAge < 0)
	assert.Contains(t, res.Body.String(), `"success":true`)
}

func TestMe_AnonymousReturnsNullUser(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeProvider{}, newMemUserRepo())

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"user":null`)
}

func TestMe_AuthenticatedReturnsUser(t *testing.T) {
	repo := newMemUserRepo()
	r, tokens := newAuthRouter(t, &fakeProvider{}, repo)

	token, err := tokens.Issue("sub-me", sessions.IssueOptions{Email: "me@example.com", Name: "Me"})
	require.NoError(t, err)

	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rq.AddCookie(&http.Cookie{Name: "xterics_session", Value: token})
	r.ServeHTTP(res, rq)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"sub-me"`)
}
