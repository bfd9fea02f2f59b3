package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"librarium/internal/models"
)

type LoanRepository interface {
	Create(db *gorm.DB, loan *models.Loan) error
	GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Loan, error)
	GetEnriched(db *gorm.DB, id uuid.UUID) (*models.Loan, error)
	ListAll(db *gorm.DB) ([]models.Loan, error)
	ListOpenByUser(db *gorm.DB, userID uuid.UUID) ([]models.Loan, error)
	ListOpenByBook(db *gorm.DB, bookID uuid.UUID) ([]models.Loan, error)
	ListRecent(db *gorm.DB, limit int) ([]models.Loan, error)
	ListOverdue(db *gorm.DB, now time.Time) ([]models.Loan, error)
	CountOpen(db *gorm.DB) (int64, error)
	HasOpenByUser(db *gorm.DB, userID uuid.UUID) (bool, error)
	HasOpenByBook(db *gorm.DB, bookID uuid.UUID) (bool, error)
	HasOpenByBooks(db *gorm.DB, bookIDs []uuid.UUID) (bool, error)
	MarkReturned(db *gorm.DB, id uuid.UUID, returnedAt time.Time) error
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(db *gorm.DB, loan *models.Loan) error {
	if db == nil {
		db = r.db
	}
	return db.Create(loan).Error
}

// GetByIDForUpdate locks the loan row to serialize concurrent returns.
func (r *loanRepository) GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loan models.Loan
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) GetEnriched(db *gorm.DB, id uuid.UUID) (*models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loan models.Loan
	err := db.
		Preload("Book.Author").
		Preload("User").
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListAll(db *gorm.DB) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	err := db.
		Preload("Book.Author").
		Preload("User").
		Order("borrowed_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListOpenByUser(db *gorm.DB, userID uuid.UUID) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	err := db.
		Preload("Book.Author").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("borrowed_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListOpenByBook(db *gorm.DB, bookID uuid.UUID) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	err := db.
		Preload("User").
		Where("book_id = ? AND returned_at IS NULL", bookID).
		Order("borrowed_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListRecent(db *gorm.DB, limit int) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	err := db.
		Preload("Book").
		Preload("User").
		Order("borrowed_at DESC").
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListOverdue(db *gorm.DB, now time.Time) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	err := db.
		Preload("Book").
		Preload("User").
		Where("returned_at IS NULL AND due_date < ?", now).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) CountOpen(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Loan{}).
		Where("returned_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *loanRepository) HasOpenByUser(db *gorm.DB, userID uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Loan{}).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *loanRepository) HasOpenByBook(db *gorm.DB, bookID uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Loan{}).
		Where("book_id = ? AND returned_at IS NULL", bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *loanRepository) HasOpenByBooks(db *gorm.DB, bookIDs []uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	if len(bookIDs) == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&models.Loan{}).
		Where("book_id IN ? AND returned_at IS NULL", bookIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *loanRepository) MarkReturned(db *gorm.DB, id uuid.UUID, returnedAt time.Time) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.Loan{}).
		Where("id = ? AND returned_at IS NULL", id).
		Update("returned_at", returnedAt).
		Error
}
