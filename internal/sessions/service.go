package sessions

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xterics/xterics/backend/api/pkg/logger"
)

// ErrEmptyOpenID is returned by Issue when no subject identifier is supplied.
var ErrEmptyOpenID = errors.New("openId is required to issue a session token")

// Payload is the verified content of a session token.
type Payload struct {
	OpenID string
	Email  string
	Name   string
}

// IssueOptions carries the optional profile fields embedded in a token and an
// optional lifetime override.
type IssueOptions struct {
	Email string
	Name  string
	TTL   time.Duration
}

// Service issues and verifies session tokens. It is the sole authority on
// signature and expiry; callers treat the token as opaque.
type Service struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewService(secret string, defaultTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs an HS256 token carrying the openId and optional profile fields.
// Absent email/name are normalized to empty strings so verification always
// yields the same shape.
func (s *Service) Issue(openID string, opts IssueOptions) (string, error) {
	if openID == "" {
		return "", ErrEmptyOpenID
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"openId": openID,
		"email":  opts.Email,
		"name":   opts.Name,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(s.secret)
}

// Verify returns the token payload, or nil for every expected rejection:
// empty token, bad signature, non-HS256 algorithm, expired or missing exp,
// or a payload without a non-empty openId. Rejections are logged at warn and never
// surface as errors; only the caller decides how a missing session is handled.
func (s *Service) Verify(token string) *Payload {
	if token == "" {
		logger.Warnf("auth: missing session token")
		return nil
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		logger.Warnf("auth: session verification failed: %v", err)
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		logger.Warnf("auth: unexpected session claims type")
		return nil
	}
	openID, _ := claims["openId"].(string)
	if openID == "" {
		// signature was fine but the payload shape drifted; reject anyway
		logger.Warnf("auth: session payload missing openId")
		return nil
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &Payload{OpenID: openID, Email: email, Name: name}
}
