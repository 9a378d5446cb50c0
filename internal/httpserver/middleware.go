package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain"
)

const userCtxKey = "auth_user"

// sessionMiddleware requires a valid bearer token and stores its identity.
func sessionMiddleware(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}
		user, err := sessions.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(userCtxKey, user)
		c.Next()
	}
}

func sessionUser(c *gin.Context) (domain.AuthUser, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return domain.AuthUser{}, false
	}
	u, ok := v.(domain.AuthUser)
	return u, ok
}
