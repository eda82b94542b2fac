package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/config"
	"github.com/logto-io/go/v2/client"
	"go.uber.org/zap"
)

// LogtoHandler signs browser users in through Logto and remembers them in
// the cookie session.
type LogtoHandler struct {
	config *config.LogtoConfig
	log    *zap.Logger
}

func NewLogtoHandler(cfg *config.LogtoConfig, log *zap.Logger) *LogtoHandler {
	return &LogtoHandler{config: cfg, log: log}
}

func (h *LogtoHandler) CreateLogtoClient(ctx *gin.Context) *client.LogtoClient {
	session := sessions.Default(ctx)
	logtoConfig := &client.LogtoConfig{
		Endpoint:  h.config.Endpoint,
		AppId:     h.config.AppID,
		AppSecret: h.config.AppSecret,
	}
	return client.NewLogtoClient(logtoConfig, NewSessionStorage(session, h.log))
}

func (h *LogtoHandler) Login(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	signInUri, err := logtoClient.SignIn(&client.SignInOptions{
		RedirectUri: h.config.RedirectURI,
	})
	if err != nil {
		h.log.Error("Sign-in failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate sign-in"})
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, signInUri)
}

func (h *LogtoHandler) Callback(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	if err := logtoClient.HandleSignInCallback(ctx.Request); err != nil {
		h.log.Warn("Sign-in callback failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to handle sign-in callback"})
		return
	}

	h.log.Info("Sign-in completed", zap.Bool("authenticated", logtoClient.IsAuthenticated()))
	ctx.Redirect(http.StatusFound, "/api/v1/dashboard")
}

func (h *LogtoHandler) Logout(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	signOutUri, err := logtoClient.SignOut(h.config.PostLogoutURI)
	if err != nil {
		h.log.Error("Sign-out failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate sign-out"})
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, signOutUri)
}

// SessionUser returns the Logto subject of a signed-in browser session.
func (h *LogtoHandler) SessionUser(ctx *gin.Context) (string, bool) {
	logtoClient := h.CreateLogtoClient(ctx)
	if !logtoClient.IsAuthenticated() {
		return "", false
	}

	claims, err := logtoClient.GetIdTokenClaims()
	if err != nil {
		h.log.Warn("Failed to read ID token claims", zap.Error(err))
		return "", false
	}

	return claims.Sub, true
}
