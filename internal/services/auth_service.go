package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"librarium/internal/auth"
	"librarium/internal/models"
	"librarium/internal/repositories"
)

// AuthService handles registration and credential verification.
type AuthService interface {
	Register(email, password, name string) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenIssuer
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

// Register creates a USER-role account and issues an access token.
func (s *authService) Register(email, password, name string) (*models.User, string, error) {
	if _, err := s.userRepo.GetByEmail(nil, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.UserRoleUser,
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	slog.Info("user registered", "user", user.ID, "email", user.Email)
	return user, token, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
