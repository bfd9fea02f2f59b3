package services

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/auth"
	"librarium/internal/dto"
	"librarium/internal/models"
	"librarium/internal/repositories"
)

// UserService manages user accounts.
type UserService interface {
	Create(email, password, name string, role models.UserRole) (*models.User, error)
	List() ([]models.User, error)
	Get(id uuid.UUID) (*dto.UserDetail, error)
	Delete(id uuid.UUID) error
}

type userService struct {
	tx       TxManager
	userRepo repositories.UserRepository
	loanRepo repositories.LoanRepository
}

func NewUserService(tx TxManager, userRepo repositories.UserRepository, loanRepo repositories.LoanRepository) UserService {
	return &userService{tx: tx, userRepo: userRepo, loanRepo: loanRepo}
}

func (s *userService) Create(email, password, name string, role models.UserRole) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(nil, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = models.UserRoleUser
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, err
	}
	slog.Info("user created", "user", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) List() ([]models.User, error) {
	return s.userRepo.List(nil)
}

// Get returns the user together with their currently open loans.
func (s *userService) Get(id uuid.UUID) (*dto.UserDetail, error) {
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	loans, err := s.loanRepo.ListOpenByUser(nil, id)
	if err != nil {
		return nil, err
	}
	return &dto.UserDetail{
		User:          *user,
		BorrowedBooks: dto.NewLoanResponses(loans),
	}, nil
}

// Delete removes a user unless they still hold open loans.
func (s *userService) Delete(id uuid.UUID) error {
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.GetByID(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		hasOpen, err := s.loanRepo.HasOpenByUser(tx, id)
		if err != nil {
			return err
		}
		if hasOpen {
			return ErrUserHasOpenLoans
		}
		return s.userRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}
	slog.Info("user deleted", "user", id)
	return nil
}
