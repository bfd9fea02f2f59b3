package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Role         UserRole  `gorm:"size:16;not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Author struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null;index" json:"name"`
	Bio       string     `gorm:"type:text" json:"bio,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Books     []Book     `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Book struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null;index" json:"title"`
	ISBN          string     `gorm:"size:32;uniqueIndex;not null" json:"isbn"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"authorId"`
	Author        *Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author,omitempty"`
	Available     bool       `gorm:"not null;default:true" json:"available"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Loan records a book being lent to a user. A nil ReturnedAt means the loan
// is still open; at most one open loan may exist per book.
type Loan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"bookId"`
	Book       *Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"book,omitempty"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User       *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	BorrowedAt time.Time  `gorm:"not null;index" json:"borrowedAt"`
	DueDate    time.Time  `gorm:"not null;index" json:"dueDate"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Open reports whether the loan has not been returned yet.
func (l *Loan) Open() bool {
	return l.ReturnedAt == nil
}

// Overdue reports whether the loan is open and past its due date.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Open() && l.DueDate.Before(now)
}
