package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/dto"
	"librarium/internal/models"
	"librarium/internal/repositories"
)

// UpdateBookParams carries the mutable book fields; nil means unchanged.
// Available is the administrative override path for the availability flag.
type UpdateBookParams struct {
	Title         *string
	ISBN          *string
	PublishedDate *time.Time
	AuthorID      *uuid.UUID
	Available     *bool
}

// BookService manages the book catalog.
type BookService interface {
	Create(title, isbn string, publishedDate *time.Time, authorID uuid.UUID) (*models.Book, error)
	List(filter repositories.BookFilter) ([]models.Book, error)
	Get(id uuid.UUID) (*dto.BookDetail, error)
	Update(id uuid.UUID, params UpdateBookParams) (*models.Book, error)
	Delete(id uuid.UUID) error
}

type bookService struct {
	tx         TxManager
	authorRepo repositories.AuthorRepository
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository
}

func NewBookService(
	tx TxManager,
	authorRepo repositories.AuthorRepository,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
) BookService {
	return &bookService{
		tx:         tx,
		authorRepo: authorRepo,
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
	}
}

func (s *bookService) Create(title, isbn string, publishedDate *time.Time, authorID uuid.UUID) (*models.Book, error) {
	if _, err := s.authorRepo.GetByID(nil, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	if _, err := s.bookRepo.GetByISBN(nil, isbn); err == nil {
		return nil, ErrISBNTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	book := &models.Book{
		Title:         title,
		ISBN:          isbn,
		PublishedDate: publishedDate,
		AuthorID:      authorID,
		Available:     true,
	}
	if err := s.bookRepo.Create(nil, book); err != nil {
		return nil, err
	}
	slog.Info("book created", "book", book.ID, "isbn", book.ISBN)
	return s.bookRepo.GetByID(nil, book.ID)
}

func (s *bookService) List(filter repositories.BookFilter) ([]models.Book, error) {
	return s.bookRepo.List(nil, filter)
}

// Get returns the book with its author and any open loans.
func (s *bookService) Get(id uuid.UUID) (*dto.BookDetail, error) {
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	loans, err := s.loanRepo.ListOpenByBook(nil, id)
	if err != nil {
		return nil, err
	}
	return &dto.BookDetail{
		Book:          *book,
		BorrowedBooks: dto.NewLoanResponses(loans),
	}, nil
}

func (s *bookService) Update(id uuid.UUID, params UpdateBookParams) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if params.AuthorID != nil {
		if _, err := s.authorRepo.GetByID(nil, *params.AuthorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAuthorNotFound
			}
			return nil, err
		}
		book.AuthorID = *params.AuthorID
	}
	if params.ISBN != nil && *params.ISBN != book.ISBN {
		if _, err := s.bookRepo.GetByISBN(nil, *params.ISBN); err == nil {
			return nil, ErrISBNTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		book.ISBN = *params.ISBN
	}
	if params.Title != nil {
		book.Title = *params.Title
	}
	if params.PublishedDate != nil {
		book.PublishedDate = params.PublishedDate
	}
	if params.Available != nil {
		// Administrative override of the ledger-owned flag.
		book.Available = *params.Available
		slog.Warn("book availability overridden", "book", book.ID, "available", *params.Available)
	}

	book.Author = nil
	if err := s.bookRepo.Save(nil, book); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(nil, book.ID)
}

// Delete removes a book unless an open loan references it.
func (s *bookService) Delete(id uuid.UUID) error {
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookRepo.GetByIDForUpdate(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		hasOpen, err := s.loanRepo.HasOpenByBook(tx, id)
		if err != nil {
			return err
		}
		if hasOpen {
			return ErrBookOnLoan
		}
		return s.bookRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}
	slog.Info("book deleted", "book", id)
	return nil
}
