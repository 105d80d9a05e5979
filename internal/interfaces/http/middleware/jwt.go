package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	ClaimsKey    = "jwt_claims"
	AuthHeader   = "Authorization"
	BearerPrefix = "Bearer "
)

// JWTAuth validates the bearer token and stores the claims on both the
// gin context and the request context, where the permission checker
// reads them.
func JWTAuth(jwtService *auth.JWTService, skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range skipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeader)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, "Token validation failed")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetClaims returns the authenticated claims, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(ClaimsKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user ID, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}

// GetOrgID returns the authenticated organization ID, or uuid.Nil
func GetOrgID(c *gin.Context) uuid.UUID {
	if claims := GetClaims(c); claims != nil {
		return claims.OrgID
	}
	return uuid.Nil
}
