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

// LoanPeriod is the default lending period applied when the caller supplies
// no due date.
const LoanPeriod = 14 * 24 * time.Hour

// LedgerService mediates the loan lifecycle and keeps Book.Available
// consistent with open-loan existence.
type LedgerService interface {
	Borrow(bookID, userID uuid.UUID, dueDate *time.Time) (*models.Loan, error)
	Return(loanID uuid.UUID) (*models.Loan, error)
	ListForUser(userID uuid.UUID) ([]models.Loan, error)
	ListAll() ([]models.Loan, error)
	HasOpenLoansForUser(userID uuid.UUID) (bool, error)
	HasOpenLoansForBook(bookID uuid.UUID) (bool, error)
}

type ledgerService struct {
	tx       TxManager
	userRepo repositories.UserRepository
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

func NewLedgerService(
	tx TxManager,
	userRepo repositories.UserRepository,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
) LedgerService {
	return &ledgerService{
		tx:       tx,
		userRepo: userRepo,
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// Borrow creates a loan for an available book and flips the book to
// unavailable, all in one transaction. The book row is locked up front
// (SELECT ... FOR UPDATE) so that of two concurrent borrows of the same book
// exactly one sees Available == true.
func (s *ledgerService) Borrow(bookID, userID uuid.UUID, dueDate *time.Time) (*models.Loan, error) {
	var created *models.Loan

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		book, err := s.bookRepo.GetByIDForUpdate(tx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if !book.Available {
			return ErrBookUnavailable
		}
		if _, err := s.userRepo.GetByID(tx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		now := time.Now().UTC()
		due := now.Add(LoanPeriod)
		if dueDate != nil {
			due = dueDate.UTC()
		}
		loan := &models.Loan{
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: now,
			DueDate:    due,
		}
		if err := s.loanRepo.Create(tx, loan); err != nil {
			return err
		}
		if err := s.bookRepo.SetAvailable(tx, bookID, false); err != nil {
			return err
		}
		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("loan created",
		"loan", created.ID, "book", bookID, "user", userID, "due", created.DueDate)
	return s.loanRepo.GetEnriched(nil, created.ID)
}

// Return closes an open loan and flips the book back to available, in one
// transaction. The loan row is locked to serialize concurrent returns.
func (s *ledgerService) Return(loanID uuid.UUID) (*models.Loan, error) {
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		loan, err := s.loanRepo.GetByIDForUpdate(tx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.ReturnedAt != nil {
			return ErrLoanAlreadyReturned
		}

		now := time.Now().UTC()
		if err := s.loanRepo.MarkReturned(tx, loan.ID, now); err != nil {
			return err
		}
		return s.bookRepo.SetAvailable(tx, loan.BookID, true)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("loan returned", "loan", loanID)
	return s.loanRepo.GetEnriched(nil, loanID)
}

// ListForUser returns the user's open loans, newest first.
func (s *ledgerService) ListForUser(userID uuid.UUID) ([]models.Loan, error) {
	if _, err := s.userRepo.GetByID(nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.loanRepo.ListOpenByUser(nil, userID)
}

// ListAll returns every loan, newest first.
func (s *ledgerService) ListAll() ([]models.Loan, error) {
	return s.loanRepo.ListAll(nil)
}

func (s *ledgerService) HasOpenLoansForUser(userID uuid.UUID) (bool, error) {
	return s.loanRepo.HasOpenByUser(nil, userID)
}

func (s *ledgerService) HasOpenLoansForBook(bookID uuid.UUID) (bool, error) {
	return s.loanRepo.HasOpenByBook(nil, bookID)
}
