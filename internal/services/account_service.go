package services

import (
	"errors"
	"strings"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("invalid username")
)

type AccountService struct {
	userRepo *repository.UserRepository
}

func NewAccountService(userRepo *repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// ResolveOwner maps an authenticated identity onto its user row, creating
// the row the first time the identity is seen.
func (s *AccountService) ResolveOwner(username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{Username: username}
		err = s.userRepo.Create(user)
		if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *AccountService) GetUser(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AccountService) ListUsers() ([]models.User, error) {
	return s.userRepo.FindAll()
}
