package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/models"
	"librarium/internal/repositories"
)

// UpdateAuthorParams carries the mutable author fields; nil means unchanged.
type UpdateAuthorParams struct {
	Name      *string
	Bio       *string
	BirthDate *time.Time
}

// AuthorService manages the author catalog.
type AuthorService interface {
	Create(name, bio string, birthDate *time.Time) (*models.Author, error)
	List() ([]repositories.AuthorWithBookCount, error)
	Get(id uuid.UUID) (*models.Author, error)
	Update(id uuid.UUID, params UpdateAuthorParams) (*models.Author, error)
	Delete(id uuid.UUID) error
}

type authorService struct {
	tx         TxManager
	authorRepo repositories.AuthorRepository
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository
}

func NewAuthorService(
	tx TxManager,
	authorRepo repositories.AuthorRepository,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
) AuthorService {
	return &authorService{
		tx:         tx,
		authorRepo: authorRepo,
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
	}
}

func (s *authorService) Create(name, bio string, birthDate *time.Time) (*models.Author, error) {
	author := &models.Author{
		Name:      name,
		Bio:       bio,
		BirthDate: birthDate,
	}
	if err := s.authorRepo.Create(nil, author); err != nil {
		return nil, err
	}
	slog.Info("author created", "author", author.ID, "name", author.Name)
	return author, nil
}

func (s *authorService) List() ([]repositories.AuthorWithBookCount, error) {
	return s.authorRepo.ListWithBookCounts(nil)
}

// Get returns the author with their books, newest publication first.
func (s *authorService) Get(id uuid.UUID) (*models.Author, error) {
	author, err := s.authorRepo.GetByIDWithBooks(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return author, nil
}

func (s *authorService) Update(id uuid.UUID, params UpdateAuthorParams) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	if params.Name != nil {
		author.Name = *params.Name
	}
	if params.Bio != nil {
		author.Bio = *params.Bio
	}
	if params.BirthDate != nil {
		author.BirthDate = params.BirthDate
	}
	if err := s.authorRepo.Save(nil, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Delete removes the author and all of their books in one transaction. The
// cascade is refused while any of those books is on loan, so the check and
// the multi-row delete happen under the same transaction.
func (s *authorService) Delete(id uuid.UUID) error {
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if _, err := s.authorRepo.GetByID(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuthorNotFound
			}
			return err
		}
		bookIDs, err := s.bookRepo.ListIDsByAuthor(tx, id)
		if err != nil {
			return err
		}
		hasOpen, err := s.loanRepo.HasOpenByBooks(tx, bookIDs)
		if err != nil {
			return err
		}
		if hasOpen {
			return ErrAuthorBooksOnLoan
		}
		if err := s.bookRepo.DeleteByAuthor(tx, id); err != nil {
			return err
		}
		return s.authorRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}
	slog.Info("author deleted", "author", id)
	return nil
}
