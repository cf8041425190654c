package oauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/xterics/xterics/backend/api/pkg/logger"
)

const googleIssuer = "https://accounts.google.com"

// Profile is the identity-provider view of the logged-in user.
type Profile struct {
	Sub   string
	Email string
	Name  string
}

// Provider is the surface the OAuth handlers depend on; satisfied by *Google
// and by test fakes.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, tok *oauth2.Token) (*Profile, error)
}

// Google bridges to the Google identity provider: authorization redirect,
// code exchange and profile fetch. Both upstream calls run on a client with
// an explicit timeout so a hung provider cannot pin a request handler.
type Google struct {
	cfg      oauth2.Config
	provider *oidc.Provider
	http     *http.Client
}

// NewGoogle discovers the Google endpoints and prepares the OAuth2 client
// configuration. Discovery is a network call and runs once at startup.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURI string) (*Google, error) {
	hc := &http.Client{Timeout: 10 * time.Second}
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, hc), googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("google discovery: %w", err)
	}
	return &Google{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		provider: provider,
		http:     hc,
	}, nil
}

// AuthURL builds the authorization redirect carrying the anti-forgery state.
func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens, retrying once on failure.
func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.http)
	tok, err := g.cfg.Exchange(ctx, code)
	if err == nil {
		return tok, nil
	}
	logger.Warnf("oauth: token exchange failed, retrying once: %v", err)
	time.Sleep(500 * time.Millisecond)
	tok, err = g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return tok, nil
}

// FetchProfile loads sub/email/name from the provider userinfo endpoint.
func (g *Google) FetchProfile(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	ui, err := g.provider.UserInfo(oidc.ClientContext(ctx, g.http), oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	var extra struct {
		Name string `json:"name"`
	}
	if err := ui.Claims(&extra); err != nil {
		logger.Warnf("oauth: userinfo claims decode failed: %v", err)
	}
	return &Profile{Sub: ui.Subject, Email: ui.Email, Name: extra.Name}, nil
}
