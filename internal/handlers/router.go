package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/auth"
	"librarium/internal/services"
)

// API bundles the services behind the HTTP surface.
type API struct {
	auth    services.AuthService
	users   services.UserService
	authors services.AuthorService
	books   services.BookService
	ledger  services.LedgerService
	stats   services.StatsService
	tokens  *auth.TokenIssuer
}

func NewAPI(
	authSvc services.AuthService,
	users services.UserService,
	authors services.AuthorService,
	books services.BookService,
	ledger services.LedgerService,
	stats services.StatsService,
	tokens *auth.TokenIssuer,
) *API {
	return &API{
		auth:    authSvc,
		users:   users,
		authors: authors,
		books:   books,
		ledger:  ledger,
		stats:   stats,
		tokens:  tokens,
	}
}

// RegisterRoutes wires all endpoints under /api.
func RegisterRoutes(r *gin.Engine, api *API) {
	public := r.Group("/api")
	public.POST("/auth/register", api.register)
	public.POST("/auth/login", api.login)
	public.GET("/authors", api.listAuthors)
	public.GET("/authors/:id", api.getAuthor)
	public.GET("/books", api.listBooks)
	public.GET("/books/:id", api.getBook)

	authed := r.Group("/api", RequireAuth(api.tokens))

	authed.POST("/users", RequireOperation(auth.OpUserCreate), api.createUser)
	authed.GET("/users", RequireOperation(auth.OpUserList), api.listUsers)
	authed.GET("/users/:id", RequireOperation(auth.OpUserGet), api.getUser)
	authed.DELETE("/users/:id", RequireOperation(auth.OpUserDelete), api.deleteUser)

	authed.POST("/authors", RequireOperation(auth.OpAuthorCreate), api.createAuthor)
	authed.PATCH("/authors/:id", RequireOperation(auth.OpAuthorUpdate), api.updateAuthor)
	authed.DELETE("/authors/:id", RequireOperation(auth.OpAuthorDelete), api.deleteAuthor)

	authed.POST("/books", RequireOperation(auth.OpBookCreate), api.createBook)
	authed.PATCH("/books/:id", RequireOperation(auth.OpBookUpdate), api.updateBook)
	authed.DELETE("/books/:id", RequireOperation(auth.OpBookDelete), api.deleteBook)

	authed.POST("/borrowed-books", RequireOperation(auth.OpLoanCreate), api.createLoan)
	authed.GET("/borrowed-books", RequireOperation(auth.OpLoanListAll), api.listLoans)
	authed.GET("/borrowed-books/user/:userId", RequireOperation(auth.OpLoanListUser), api.listLoansForUser)
	authed.PATCH("/borrowed-books/:id/return", RequireOperation(auth.OpLoanReturn), api.returnLoan)

	authed.GET("/stats/dashboard", RequireOperation(auth.OpStatsView), api.dashboard)
}

// parseDate accepts RFC 3339 timestamps or plain dates (2006-01-02).
func parseDate(value string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
