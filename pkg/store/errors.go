package store

import "errors"

// Sentinel errors returned by the store. Constraint violations reported by
// the engine are mapped onto these so callers can branch with errors.Is
// instead of parsing driver messages.
var (
	ErrEmailRequired           = errors.New("email required")
	ErrCategoryRequired        = errors.New("category required")
	ErrInvalidTransactionType  = errors.New("transaction_type must be credit or debit")
	ErrInvalidMonth            = errors.New("month must be between 1 and 12")
	ErrTransactionDateRequired = errors.New("transaction_date required")
	ErrInsightDateRequired     = errors.New("insight_date required")

	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateEmailID = errors.New("transaction for this email already ingested")
	ErrBudgetExists     = errors.New("budget already exists for this user, category and month")
	ErrInsightExists    = errors.New("daily insight already exists for this user and date")

	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrInsightNotFound     = errors.New("daily insight not found")

	// ErrUserRequired surfaces a foreign key violation: the referenced
	// user row does not exist.
	ErrUserRequired = errors.New("referenced user does not exist")
)
