package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrTokenNotFound = errors.New("token not found")
)

const tokenIssuer = "croptrack"

type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	tokenRepo *repository.TokenRepository
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewTokenService(tokenRepo *repository.TokenRepository, userRepo *repository.UserRepository, jwtSecret string) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// GenerateToken signs a bearer token for username and records it so it can
// be listed and revoked. Each token carries a random jti, so two tokens
// issued in the same second still differ.
func (s *TokenService) GenerateToken(username string, expiresIn time.Duration) (string, time.Time, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", time.Time{}, err
	}
	if user == nil {
		return "", time.Time{}, ErrUserNotFound
	}

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)
	tokenID := uuid.NewString()

	claims := TokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	apiToken := &models.APIToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}

	err = s.tokenRepo.Create(apiToken)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	dbToken, err := s.tokenRepo.FindActive(tokenString, time.Now())
	if err != nil {
		return nil, err
	}
	if dbToken == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) ListUserTokens(username string) ([]models.APIToken, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.tokenRepo.ListByUser(user.ID)
}

func (s *TokenService) DeleteToken(tokenID uint, username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	deleted, err := s.tokenRepo.Delete(tokenID, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTokenNotFound
	}
	return nil
}

// PurgeExpired drops expired token records and returns how many went.
func (s *TokenService) PurgeExpired() (int64, error) {
	return s.tokenRepo.PurgeExpired(time.Now())
}
