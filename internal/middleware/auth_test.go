package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/database"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	username string
}

func (f fakeSessions) SessionUser(*gin.Context) (string, bool) {
	return f.username, f.username != ""
}

type authFixture struct {
	tokens   *services.TokenService
	accounts *services.AccountService
}

func setupAuthFixture(t *testing.T) *authFixture {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	userRepo := repository.NewUserRepository(db)
	return &authFixture{
		tokens:   services.NewTokenService(repository.NewTokenRepository(db), userRepo, "test-secret"),
		accounts: services.NewAccountService(userRepo),
	}
}

func (f *authFixture) router(sessions SessionAuthenticator, testMode bool, adminUsers ...string) *gin.Engine {
	auth := NewAuthMiddleware(f.tokens, f.accounts, sessions, testMode)
	admin := NewAdminMiddleware(adminUsers)

	router := gin.New()
	whoami := func(c *gin.Context) {
		ownerID, _ := GetOwnerID(c)
		c.JSON(http.StatusOK, gin.H{"username": GetUsername(c), "owner_id": ownerID})
	}
	router.GET("/private", auth.RequireAuth(), whoami)
	router.GET("/optional", auth.OptionalAuth(), whoami)
	router.GET("/admin", auth.RequireAuth(), admin.RequireAdmin(), whoami)
	return router
}

func get(router http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_BearerToken(t *testing.T) {
	f := setupAuthFixture(t)
	_, err := f.accounts.ResolveOwner("alice")
	require.NoError(t, err)
	token, _, err := f.tokens.GenerateToken("alice", time.Hour)
	require.NoError(t, err)

	router := f.router(nil, false)

	w := get(router, "/private", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = get(router, "/private", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")

	w = get(router, "/private", map[string]string{"Authorization": "Token " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header format")

	w = get(router, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestRequireAuth_IgnoresTestHeaderOutsideTestMode(t *testing.T) {
	f := setupAuthFixture(t)
	router := f.router(nil, false)

	w := get(router, "/private", map[string]string{TestUserHeader: "alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Session(t *testing.T) {
	f := setupAuthFixture(t)
	router := f.router(fakeSessions{username: "logto-subject"}, false)

	w := get(router, "/private", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"logto-subject"`)

	user, err := f.accounts.GetUser("logto-subject")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestRequireAuth_TestMode(t *testing.T) {
	f := setupAuthFixture(t)
	router := f.router(nil, true)

	w := get(router, "/private", map[string]string{TestUserHeader: "bob"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	w = get(router, "/private", map[string]string{TestUserHeader: "   "})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	f := setupAuthFixture(t)
	router := f.router(nil, false)

	w := get(router, "/optional", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner_id":0`)

	w = get(router, "/optional", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":""`)
}

func TestRequireAdmin(t *testing.T) {
	f := setupAuthFixture(t)
	router := f.router(nil, true, "admin")

	w := get(router, "/admin", map[string]string{TestUserHeader: "alice"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(router, "/admin", map[string]string{TestUserHeader: "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddleware_IsAdmin(t *testing.T) {
	admin := NewAdminMiddleware([]string{" root ", "", "ops"})

	assert.True(t, admin.IsAdmin("root"))
	assert.True(t, admin.IsAdmin("ops"))
	assert.False(t, admin.IsAdmin(""))
	assert.False(t, admin.IsAdmin("Root"))
}
