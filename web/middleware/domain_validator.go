package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DomainValidatorMiddleware rejects requests whose Host header does not
// match the configured panel domain.
func DomainValidatorMiddleware(domain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		if host != domain {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
