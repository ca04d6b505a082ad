package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	operatorHeader  = "X-Operator"
	operatorCtxKey  = "operator"
	defaultOperator = "admin"
)

// AdminAuth returns middleware that authenticates operators with a shared
// bearer token. An empty configured token disables the admin surface
// entirely rather than leaving it open.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin interface disabled"})
			return
		}

		presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		operator := c.GetHeader(operatorHeader)
		if operator == "" {
			operator = defaultOperator
		}
		c.Set(operatorCtxKey, operator)

		c.Next()
	}
}

// OperatorFrom returns the authenticated operator identity for the request.
func OperatorFrom(c *gin.Context) string {
	if v, ok := c.Get(operatorCtxKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return defaultOperator
}
