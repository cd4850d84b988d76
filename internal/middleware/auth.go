package middleware

import (
	"net/http"
	"strings"

	"facturapos/internal/apierror"
	"facturapos/internal/identity"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// Auth validates the Bearer credential on every protected route and stores
// the resolved tenant identifier in the request context.
func Auth(verifier *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("No autorizado"))
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido"))
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the tenant identifier set by Auth.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
