package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xterics/xterics/backend/api/internal/auth"
	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/pkg/metrics"
)

// UserKey is the gin context key carrying the authenticated *models.User.
const UserKey = "user"

// UserFrom returns the authenticated user set by the session middleware.
func UserFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// SessionAuth requires a valid session cookie. The response carries only the
// gate's generic message; causes stay in the server log.
func SessionAuth(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Cookie"))
		if err != nil {
			metrics.AuthRejected.WithLabelValues(err.Error()).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalSession resolves the session when present but lets anonymous
// requests through; handlers read the user via UserFrom.
func OptionalSession(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Cookie")); err == nil {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// RequireAdmin must run after SessionAuth; rejects non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFrom(c)
		if !ok || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
