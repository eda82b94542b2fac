package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/middleware"
	"github.com/h4ks-com/croptrack/internal/services"
)

type TokenHandler struct {
	tokenService *services.TokenService
}

func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type CreateTokenRequest struct {
	ExpiresIn string `json:"expires_in" binding:"required" example:"30d"`
}

type CreateTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type TokenListResponse struct {
	ID        uint   `json:"id"`
	TokenID   string `json:"token_id"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// parseExpiry accepts Go durations plus a whole-day suffix, e.g. "30d".
func parseExpiry(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

// CreateToken godoc
// @Summary Create API token
// @Description Create a new API token with specified expiration
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTokenRequest true "Token expiration (e.g., 24h, 7d, 30d)"
// @Success 201 {object} CreateTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens [post]
func (h *TokenHandler) CreateToken(c *gin.Context) {
	username := middleware.GetUsername(c)

	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	duration, err := parseExpiry(req.ExpiresIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expires_in format, use duration like 24h, 7d, 30d"})
		return
	}
	if duration <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expires_in must be positive"})
		return
	}

	token, expiresAt, err := h.tokenService.GenerateToken(username, duration)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// ListTokens godoc
// @Summary List API tokens
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TokenListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens [get]
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListUserTokens(middleware.GetUsername(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response := make([]TokenListResponse, len(tokens))
	for i, token := range tokens {
		response[i] = TokenListResponse{
			ID:        token.ID,
			TokenID:   token.TokenID,
			ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
			CreatedAt: token.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// DeleteToken godoc
// @Summary Delete API token
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path int true "Token ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens/{id} [delete]
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	var uri struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token ID"})
		return
	}

	err := h.tokenService.DeleteToken(uri.ID, middleware.GetUsername(c))
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "token not found"})
			return
		}
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "token deleted successfully"})
}
