package middleware

import (
	"net/http"

	"github.com/AlvanCjh/paddock-panel/web/session"

	"github.com/gin-gonic/gin"
)

// RoleRequired rejects requests whose session member does not carry one of
// the given roles. The login check runs earlier in the chain.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		member := session.GetMember(c)
		if member == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !allowed[member.Role] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
