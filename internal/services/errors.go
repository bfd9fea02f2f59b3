package services

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthorNotFound is returned when the referenced author does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrLoanNotFound is returned when the referenced loan does not exist.
	ErrLoanNotFound = errors.New("borrowed book record not found")

	// ErrEmailTaken is returned when registering or creating a user with an
	// email that already exists.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrISBNTaken is returned when creating or updating a book with an ISBN
	// that already exists.
	ErrISBNTaken = errors.New("book with this ISBN already exists")

	// ErrBookUnavailable is returned when borrowing a book whose availability
	// flag is false.
	ErrBookUnavailable = errors.New("this book is currently not available for borrowing")

	// ErrLoanAlreadyReturned is returned when a return is attempted on a loan
	// that is already closed.
	ErrLoanAlreadyReturned = errors.New("this book has already been returned")

	// ErrUserHasOpenLoans blocks deleting a user with open loans.
	ErrUserHasOpenLoans = errors.New("cannot delete a user with borrowed books")

	// ErrBookOnLoan blocks deleting a book with an open loan.
	ErrBookOnLoan = errors.New("cannot delete a book that is currently borrowed")

	// ErrAuthorBooksOnLoan blocks the author delete cascade while any of the
	// author's books is on loan.
	ErrAuthorBooksOnLoan = errors.New("cannot delete an author while their books are borrowed")

	// ErrInvalidCredentials is returned on login with unknown email or wrong
	// password. Deliberately indistinct between the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
