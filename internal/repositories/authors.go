package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/models"
)

// AuthorWithBookCount is the list projection for authors including how many
// books the catalog holds for each.
type AuthorWithBookCount struct {
	models.Author
	BookCount int64 `json:"bookCount"`
}

type AuthorRepository interface {
	Create(db *gorm.DB, author *models.Author) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error)
	GetByIDWithBooks(db *gorm.DB, id uuid.UUID) (*models.Author, error)
	ListWithBookCounts(db *gorm.DB) ([]AuthorWithBookCount, error)
	Save(db *gorm.DB, author *models.Author) error
	Delete(db *gorm.DB, id uuid.UUID) error
	Count(db *gorm.DB) (int64, error)
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Create(author).Error
}

func (r *authorRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	if db == nil {
		db = r.db
	}
	var author models.Author
	if err := db.First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) GetByIDWithBooks(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	if db == nil {
		db = r.db
	}
	var author models.Author
	err := db.
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("published_date DESC NULLS LAST")
		}).
		First(&author, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) ListWithBookCounts(db *gorm.DB) ([]AuthorWithBookCount, error) {
	if db == nil {
		db = r.db
	}
	var rows []AuthorWithBookCount
	err := db.Model(&models.Author{}).
		Select("authors.*, COUNT(books.id) AS book_count").
		Joins("LEFT JOIN books ON books.author_id = authors.id").
		Group("authors.id").
		Order("authors.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *authorRepository) Save(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Save(author).Error
}

func (r *authorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Author{}, "id = ?", id).Error
}

func (r *authorRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	if err := db.Model(&models.Author{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
