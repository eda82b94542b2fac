package repository

import (
	"errors"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"gorm.io/gorm"
)

// TokenRepository stores issued bearer tokens so they can be listed and
// revoked. Expiry is evaluated against the caller's now.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(token *models.APIToken) error {
	return r.db.Create(token).Error
}

func (r *TokenRepository) active(now time.Time) *gorm.DB {
	return r.db.Where("expires_at > ?", now.UTC())
}

// FindActive returns the unexpired token matching tokenStr, or nil.
func (r *TokenRepository) FindActive(tokenStr string, now time.Time) (*models.APIToken, error) {
	var token models.APIToken
	err := r.active(now).
		Where("token = ?", tokenStr).
		Preload("User").
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) ListByUser(userID uint) ([]models.APIToken, error) {
	var tokens []models.APIToken
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// Delete removes a token owned by userID and reports whether one matched.
func (r *TokenRepository) Delete(id uint, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.APIToken{})
	return result.RowsAffected > 0, result.Error
}

// PurgeExpired deletes tokens that expired at or before now and returns how
// many were removed.
func (r *TokenRepository) PurgeExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now.UTC()).Delete(&models.APIToken{})
	return result.RowsAffected, result.Error
}
