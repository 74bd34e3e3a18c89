package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/constants"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/token"
)

// RequireAuth resolves the principal from a Bearer token. When the token's
// remaining lifetime falls under the refresh window, a replacement token is
// issued and surfaced via the X-Refresh-Token response header; the old
// token stays valid until its own expiry.
func RequireAuth(tokenService *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		principal, claims, err := tokenService.Verify(tokenString)
		if err != nil {
			if err == token.ErrExpired {
				apierrors.TokenExpired(c)
			} else {
				apierrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		if tokenService.ShouldRefresh(claims) {
			refreshed, err := tokenService.Refresh(claims)
			if err != nil {
				// The request still carries a valid token; proceed without refresh
				logrus.WithError(err).Warn("failed to reissue token")
			} else {
				c.Header(constants.RefreshTokenHeader, refreshed)
			}
		}

		c.Set(constants.ContextKeyPrincipal, *principal)
		c.Next()
	}
}

// RequireAdmin rejects principals without the global admin role. Must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			apierrors.Forbidden(c, "Admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the resolved principal from the request context
func GetPrincipal(c *gin.Context) (authz.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return authz.Principal{}, false
	}

	principal, ok := value.(authz.Principal)
	return principal, ok
}
