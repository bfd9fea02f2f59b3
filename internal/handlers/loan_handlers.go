package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarium/internal/auth"
	"librarium/internal/dto"
)

func (api *API) createLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		writeValidationError(c, "invalid book id")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeValidationError(c, "invalid user id")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			writeValidationError(c, "invalid dueDate")
			return
		}
		dueDate = parsed
	}

	loan, err := api.ledger.Borrow(bookID, userID, dueDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewLoanResponse(loan))
}

func (api *API) listLoans(c *gin.Context) {
	loans, err := api.ledger.ListAll()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoanResponses(loans))
}

// listLoansForUser serves a user's open loans: the user themselves or an
// admin only.
func (api *API) listLoansForUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		writeValidationError(c, "invalid user id")
		return
	}

	claims := currentClaims(c)
	actorID, ok := currentUserID(c)
	if claims == nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	if !auth.CanViewUserLoans(actorID, claims.Role, targetID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	loans, err := api.ledger.ListForUser(targetID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoanResponses(loans))
}

func (api *API) returnLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid loan id")
		return
	}

	loan, err := api.ledger.Return(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoanResponse(loan))
}
