package services

import (
	"errors"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown accounts and wrong passwords so
// the login form leaks nothing about which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	repo *repository.UserRepository
}

func NewAuthService(repo *repository.UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Authenticate verifies the credentials and returns the account.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads one account by id; used by the access guard on every
// dashboard request.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	return s.repo.FindByID(id)
}

// ChangePassword re-hashes and stores a new password.
func (s *AuthService) ChangePassword(id uint, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must have at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(id, string(hash))
}
