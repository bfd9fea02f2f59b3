package auth

import (
	"github.com/google/uuid"

	"librarium/internal/models"
)

// Operation names an action a caller may attempt.
type Operation string

const (
	OpUserCreate Operation = "users.create"
	OpUserList   Operation = "users.list"
	OpUserGet    Operation = "users.get"
	OpUserDelete Operation = "users.delete"

	OpAuthorCreate Operation = "authors.create"
	OpAuthorUpdate Operation = "authors.update"
	OpAuthorDelete Operation = "authors.delete"

	OpBookCreate Operation = "books.create"
	OpBookUpdate Operation = "books.update"
	OpBookDelete Operation = "books.delete"

	OpLoanCreate   Operation = "loans.create"
	OpLoanReturn   Operation = "loans.return"
	OpLoanListAll  Operation = "loans.list_all"
	OpLoanListUser Operation = "loans.list_user"

	OpStatsView Operation = "stats.view"
)

// adminOnly lists operations reserved for the ADMIN role. Every other
// operation is open to any authenticated user.
var adminOnly = map[Operation]bool{
	OpUserDelete:   true,
	OpAuthorCreate: true,
	OpAuthorUpdate: true,
	OpAuthorDelete: true,
	OpLoanListAll:  true,
}

// CanPerform decides whether a role may attempt an operation.
func CanPerform(role models.UserRole, op Operation) bool {
	switch role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleUser:
		return !adminOnly[op]
	default:
		return false
	}
}

// CanViewUserLoans restricts per-user loan history to the user themselves
// or an admin.
func CanViewUserLoans(actorID uuid.UUID, actorRole models.UserRole, targetID uuid.UUID) bool {
	return actorRole == models.UserRoleAdmin || actorID == targetID
}
