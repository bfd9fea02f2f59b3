package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/services"
)

// writeServiceError maps service sentinel errors onto HTTP status codes:
// missing references → 404, duplicate unique keys → 409, invalid state
// transitions → 400, bad credentials → 401, anything else → 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAuthorNotFound),
		errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrISBNTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBookUnavailable),
		errors.Is(err, services.ErrLoanAlreadyReturned),
		errors.Is(err, services.ErrUserHasOpenLoans),
		errors.Is(err, services.ErrBookOnLoan),
		errors.Is(err, services.ErrAuthorBooksOnLoan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func writeValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
