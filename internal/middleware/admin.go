package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware gates routes to the usernames listed in ADMIN_USERS.
type AdminMiddleware struct {
	admins map[string]struct{}
}

func NewAdminMiddleware(adminUsers []string) *AdminMiddleware {
	admins := make(map[string]struct{}, len(adminUsers))
	for _, name := range adminUsers {
		if name = strings.TrimSpace(name); name != "" {
			admins[name] = struct{}{}
		}
	}
	return &AdminMiddleware{admins: admins}
}

func (m *AdminMiddleware) IsAdmin(username string) bool {
	_, ok := m.admins[username]
	return ok
}

func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := GetUsername(c)
		switch {
		case username == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case !m.IsAdmin(username):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		default:
			c.Next()
		}
	}
}
