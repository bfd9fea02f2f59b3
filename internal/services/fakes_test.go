package services

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/models"
	"librarium/internal/repositories"
)

// memStore backs the fake repositories with plain maps. Repo methods take
// the store lock per call; memTxManager serializes whole transactions with
// its own mutex, which stands in for serializable isolation.
type memStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	authors map[uuid.UUID]models.Author
	books   map[uuid.UUID]models.Book
	loans   map[uuid.UUID]models.Loan
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]models.User),
		authors: make(map[uuid.UUID]models.Author),
		books:   make(map[uuid.UUID]models.Book),
		loans:   make(map[uuid.UUID]models.Loan),
	}
}

type memTxManager struct {
	txMu sync.Mutex
}

func (m *memTxManager) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fc(nil)
}

// --- users ---

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) List(_ *gorm.DB) ([]models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	users := make([]models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memUserRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.users, id)
	return nil
}

func (r *memUserRepo) Count(_ *gorm.DB) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

// --- authors ---

type memAuthorRepo struct {
	store *memStore
}

func (r *memAuthorRepo) Create(_ *gorm.DB, author *models.Author) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	if author.CreatedAt.IsZero() {
		author.CreatedAt = time.Now().UTC()
	}
	r.store.authors[author.ID] = *author
	return nil
}

func (r *memAuthorRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.Author, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	author, ok := r.store.authors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &author, nil
}

func (r *memAuthorRepo) GetByIDWithBooks(_ *gorm.DB, id uuid.UUID) (*models.Author, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	author, ok := r.store.authors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, book := range r.store.books {
		if book.AuthorID == id {
			author.Books = append(author.Books, book)
		}
	}
	sort.Slice(author.Books, func(i, j int) bool {
		pi, pj := author.Books[i].PublishedDate, author.Books[j].PublishedDate
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return pi.After(*pj)
	})
	return &author, nil
}

func (r *memAuthorRepo) ListWithBookCounts(_ *gorm.DB) ([]repositories.AuthorWithBookCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rows := make([]repositories.AuthorWithBookCount, 0, len(r.store.authors))
	for id, author := range r.store.authors {
		var count int64
		for _, book := range r.store.books {
			if book.AuthorID == id {
				count++
			}
		}
		rows = append(rows, repositories.AuthorWithBookCount{Author: author, BookCount: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func (r *memAuthorRepo) Save(_ *gorm.DB, author *models.Author) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.authors[author.ID] = *author
	return nil
}

func (r *memAuthorRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.authors, id)
	return nil
}

func (r *memAuthorRepo) Count(_ *gorm.DB) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.authors)), nil
}

// --- books ---

type memBookRepo struct {
	store *memStore
}

func (r *memBookRepo) Create(_ *gorm.DB, book *models.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now().UTC()
	}
	r.store.books[book.ID] = *book
	return nil
}

func (r *memBookRepo) get(id uuid.UUID) (*models.Book, error) {
	book, ok := r.store.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &book, nil
}

func (r *memBookRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	book, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if author, ok := r.store.authors[book.AuthorID]; ok {
		a := author
		book.Author = &a
	}
	return book, nil
}

func (r *memBookRepo) GetByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.get(id)
}

func (r *memBookRepo) GetByISBN(_ *gorm.DB, isbn string) (*models.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, book := range r.store.books {
		if book.ISBN == isbn {
			b := book
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memBookRepo) List(_ *gorm.DB, filter repositories.BookFilter) ([]models.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var books []models.Book
	for _, book := range r.store.books {
		if filter.AuthorID != nil && book.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.Available != nil && book.Available != *filter.Available {
			continue
		}
		if filter.Search != "" && !containsFold(book.Title, filter.Search) && !containsFold(book.ISBN, filter.Search) {
			continue
		}
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	return books, nil
}

func (r *memBookRepo) Save(_ *gorm.DB, book *models.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *book
	stored.Author = nil
	r.store.books[book.ID] = stored
	return nil
}

func (r *memBookRepo) SetAvailable(_ *gorm.DB, id uuid.UUID, available bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	book, ok := r.store.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	book.Available = available
	r.store.books[id] = book
	return nil
}

func (r *memBookRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.books, id)
	return nil
}

func (r *memBookRepo) DeleteByAuthor(_ *gorm.DB, authorID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, book := range r.store.books {
		if book.AuthorID == authorID {
			delete(r.store.books, id)
		}
	}
	return nil
}

func (r *memBookRepo) ListIDsByAuthor(_ *gorm.DB, authorID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var ids []uuid.UUID
	for id, book := range r.store.books {
		if book.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memBookRepo) Count(_ *gorm.DB) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.books)), nil
}

func (r *memBookRepo) CountAvailable(_ *gorm.DB) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, book := range r.store.books {
		if book.Available {
			count++
		}
	}
	return count, nil
}

// --- loans ---

type memLoanRepo struct {
	store *memStore
}

func (r *memLoanRepo) Create(_ *gorm.DB, loan *models.Loan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = time.Now().UTC()
	}
	stored := *loan
	stored.Book = nil
	stored.User = nil
	r.store.loans[loan.ID] = stored
	return nil
}

func (r *memLoanRepo) enrich(loan models.Loan, withAuthor, withUser bool) models.Loan {
	if book, ok := r.store.books[loan.BookID]; ok {
		b := book
		if withAuthor {
			if author, ok := r.store.authors[book.AuthorID]; ok {
				a := author
				b.Author = &a
			}
		}
		loan.Book = &b
	}
	if withUser {
		if user, ok := r.store.users[loan.UserID]; ok {
			u := user
			loan.User = &u
		}
	}
	return loan
}

func (r *memLoanRepo) GetByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &loan, nil
}

func (r *memLoanRepo) GetEnriched(_ *gorm.DB, id uuid.UUID) (*models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	enriched := r.enrich(loan, true, true)
	return &enriched, nil
}

func (r *memLoanRepo) collect(filter func(models.Loan) bool, withAuthor, withUser bool) []models.Loan {
	var loans []models.Loan
	for _, loan := range r.store.loans {
		if filter(loan) {
			loans = append(loans, r.enrich(loan, withAuthor, withUser))
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.After(loans[j].BorrowedAt)
	})
	return loans
}

func (r *memLoanRepo) ListAll(_ *gorm.DB) ([]models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.collect(func(models.Loan) bool { return true }, true, true), nil
}

func (r *memLoanRepo) ListOpenByUser(_ *gorm.DB, userID uuid.UUID) ([]models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.collect(func(l models.Loan) bool {
		return l.UserID == userID && l.Open()
	}, true, false), nil
}

func (r *memLoanRepo) ListOpenByBook(_ *gorm.DB, bookID uuid.UUID) ([]models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.collect(func(l models.Loan) bool {
		return l.BookID == bookID && l.Open()
	}, false, true), nil
}

func (r *memLoanRepo) ListRecent(_ *gorm.DB, limit int) ([]models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	loans := r.collect(func(models.Loan) bool { return true }, false, true)
	if len(loans) > limit {
		loans = loans[:limit]
	}
	return loans, nil
}

func (r *memLoanRepo) ListOverdue(_ *gorm.DB, now time.Time) ([]models.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.collect(func(l models.Loan) bool {
		return l.Overdue(now)
	}, false, true), nil
}

func (r *memLoanRepo) CountOpen(_ *gorm.DB) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, loan := range r.store.loans {
		if loan.Open() {
			count++
		}
	}
	return count, nil
}

func (r *memLoanRepo) HasOpenByUser(_ *gorm.DB, userID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, loan := range r.store.loans {
		if loan.UserID == userID && loan.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLoanRepo) HasOpenByBook(_ *gorm.DB, bookID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, loan := range r.store.loans {
		if loan.BookID == bookID && loan.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLoanRepo) HasOpenByBooks(_ *gorm.DB, bookIDs []uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ids := make(map[uuid.UUID]bool, len(bookIDs))
	for _, id := range bookIDs {
		ids[id] = true
	}
	for _, loan := range r.store.loans {
		if ids[loan.BookID] && loan.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLoanRepo) MarkReturned(_ *gorm.DB, id uuid.UUID, returnedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	loan, ok := r.store.loans[id]
	if !ok || loan.ReturnedAt != nil {
		return nil
	}
	at := returnedAt
	loan.ReturnedAt = &at
	r.store.loans[id] = loan
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// testEnv wires the fakes into the services under test.
type testEnv struct {
	store   *memStore
	tx      *memTxManager
	users   repositories.UserRepository
	authors repositories.AuthorRepository
	books   repositories.BookRepository
	loans   repositories.LoanRepository
}

func newTestEnv() *testEnv {
	store := newMemStore()
	return &testEnv{
		store:   store,
		tx:      &memTxManager{},
		users:   &memUserRepo{store: store},
		authors: &memAuthorRepo{store: store},
		books:   &memBookRepo{store: store},
		loans:   &memLoanRepo{store: store},
	}
}

func (e *testEnv) seedUser(name, email string) *models.User {
	user := &models.User{Email: email, Name: name, PasswordHash: "x", Role: models.UserRoleUser}
	if err := (&memUserRepo{store: e.store}).Create(nil, user); err != nil {
		panic(err)
	}
	return user
}

func (e *testEnv) seedAuthor(name string) *models.Author {
	author := &models.Author{Name: name}
	if err := (&memAuthorRepo{store: e.store}).Create(nil, author); err != nil {
		panic(err)
	}
	return author
}

func (e *testEnv) seedBook(title, isbn string, authorID uuid.UUID) *models.Book {
	book := &models.Book{Title: title, ISBN: isbn, AuthorID: authorID, Available: true}
	if err := (&memBookRepo{store: e.store}).Create(nil, book); err != nil {
		panic(err)
	}
	return book
}
