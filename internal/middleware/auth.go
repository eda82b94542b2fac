package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/services"
)

const (
	usernameKey = "username"
	ownerIDKey  = "owner_id"

	// TestUserHeader names the caller directly when test mode is on.
	TestUserHeader = "X-Test-Username"
)

// SessionAuthenticator recognizes a signed-in browser session.
type SessionAuthenticator interface {
	SessionUser(c *gin.Context) (string, bool)
}

type AuthMiddleware struct {
	tokenService   *services.TokenService
	accountService *services.AccountService
	sessions       SessionAuthenticator
	testMode       bool
}

func NewAuthMiddleware(
	tokenService *services.TokenService,
	accountService *services.AccountService,
	sessions SessionAuthenticator,
	testMode bool,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService:   tokenService,
		accountService: accountService,
		sessions:       sessions,
		testMode:       testMode,
	}
}

// identify works out who is calling. It returns an error message only when
// credentials were presented and rejected; no credentials is ("", "").
func (m *AuthMiddleware) identify(c *gin.Context) (string, string) {
	if m.testMode {
		return c.GetHeader(TestUserHeader), ""
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "invalid authorization header format"
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			return "", "invalid or expired token"
		}
		return claims.Username, ""
	}

	if m.sessions != nil {
		if username, ok := m.sessions.SessionUser(c); ok {
			return username, ""
		}
	}

	return "", ""
}

// RequireAuth rejects anonymous callers and binds the caller's owner id to
// the request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, problem := m.identify(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}
		if username == "" {
			message := "authentication required"
			if m.testMode {
				message = TestUserHeader + " header required in test mode"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		if !m.bindOwner(c, username) {
			return
		}
		c.Next()
	}
}

// OptionalAuth binds the caller when credentials are present and valid and
// lets anonymous requests through untouched.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, problem := m.identify(c)
		if problem != "" || username == "" {
			c.Next()
			return
		}

		if !m.bindOwner(c, username) {
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) bindOwner(c *gin.Context, username string) bool {
	owner, err := m.accountService.ResolveOwner(username)
	if err != nil {
		if err == services.ErrInvalidUsername {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username"})
			return false
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return false
	}

	c.Set(usernameKey, owner.Username)
	c.Set(ownerIDKey, owner.ID)
	return true
}

func GetUsername(c *gin.Context) string {
	username, exists := c.Get(usernameKey)
	if !exists {
		return ""
	}
	return username.(string)
}

// GetOwnerID returns the requesting user's id and whether one is bound.
func GetOwnerID(c *gin.Context) (uint, bool) {
	ownerID, exists := c.Get(ownerIDKey)
	if !exists {
		return 0, false
	}
	return ownerID.(uint), true
}
