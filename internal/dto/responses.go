package dto

import (
	"time"

	"github.com/google/uuid"

	"librarium/internal/models"
)

// UserRef is the reduced user projection exposed in loan payloads. It never
// carries the password hash.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func NewUserRef(u *models.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// BookRef is the reduced book projection used in dashboard payloads.
type BookRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	ISBN  string    `json:"isbn"`
}

func NewBookRef(b *models.Book) BookRef {
	if b == nil {
		return BookRef{}
	}
	return BookRef{ID: b.ID, Title: b.Title, ISBN: b.ISBN}
}

// LoanResponse is a loan enriched with its book (including author) and a
// reduced user projection.
type LoanResponse struct {
	ID         uuid.UUID    `json:"id"`
	BookID     uuid.UUID    `json:"bookId"`
	UserID     uuid.UUID    `json:"userId"`
	BorrowedAt time.Time    `json:"borrowedAt"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnedAt *time.Time   `json:"returnedAt"`
	Book       *models.Book `json:"book,omitempty"`
	User       *UserRef     `json:"user,omitempty"`
}

func NewLoanResponse(l *models.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		BorrowedAt: l.BorrowedAt,
		DueDate:    l.DueDate,
		ReturnedAt: l.ReturnedAt,
		Book:       l.Book,
		User:       NewUserRef(l.User),
	}
}

func NewLoanResponses(loans []models.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, NewLoanResponse(&loans[i]))
	}
	return out
}

// LoanActivity is the dashboard projection of a loan: reduced book and user.
type LoanActivity struct {
	ID         uuid.UUID  `json:"id"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnedAt *time.Time `json:"returnedAt"`
	Book       BookRef    `json:"book"`
	User       UserRef    `json:"user"`
}

func NewLoanActivity(l *models.Loan) LoanActivity {
	activity := LoanActivity{
		ID:         l.ID,
		BorrowedAt: l.BorrowedAt,
		DueDate:    l.DueDate,
		ReturnedAt: l.ReturnedAt,
		Book:       NewBookRef(l.Book),
	}
	if ref := NewUserRef(l.User); ref != nil {
		activity.User = *ref
	}
	return activity
}

func NewLoanActivities(loans []models.Loan) []LoanActivity {
	out := make([]LoanActivity, 0, len(loans))
	for i := range loans {
		out = append(out, NewLoanActivity(&loans[i]))
	}
	return out
}

// DashboardSummary holds the dashboard counters. BorrowedBooks is derived as
// TotalBooks - AvailableBooks.
type DashboardSummary struct {
	TotalBooks     int64 `json:"totalBooks"`
	AvailableBooks int64 `json:"availableBooks"`
	BorrowedBooks  int64 `json:"borrowedBooks"`
	TotalAuthors   int64 `json:"totalAuthors"`
	TotalUsers     int64 `json:"totalUsers"`
	ActiveBorrows  int64 `json:"activeBorrows"`
	OverdueCount   int64 `json:"overdueCount"`
}

// DashboardSnapshot is a point-in-time, best-effort view for the dashboard.
type DashboardSnapshot struct {
	Summary        DashboardSummary `json:"summary"`
	RecentActivity []LoanActivity   `json:"recentActivity"`
	OverdueBooks   []LoanActivity   `json:"overdueBooks"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// UserDetail is a user together with their currently open loans.
type UserDetail struct {
	models.User
	BorrowedBooks []LoanResponse `json:"borrowedBooks"`
}

// BookDetail is a book together with its open loans (reduced users).
type BookDetail struct {
	models.Book
	BorrowedBooks []LoanResponse `json:"borrowedBooks"`
}
