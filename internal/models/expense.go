package models

import "fmt"

// Category classifies an expense. The set is closed; anything else is
// rejected at the service boundary.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryRent          Category = "Rent"
	CategoryTravel        Category = "Travel"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtility       Category = "Utility"
	CategoryOther         Category = "Other"
)

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryFood, CategoryRent, CategoryTravel, CategoryEntertainment, CategoryUtility, CategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Expense represents a single monetary transaction.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// BudgetID is the budget this expense is attached to, or empty when
	// the expense is personal. An expense belongs to at most one budget.
	BudgetID string `json:"budgetId,omitempty"`

	// UserID is the creator of the expense. Immutable.
	UserID string `json:"userId"`

	// Amount is the monetary amount of the expense.
	Amount float64 `json:"amount"`

	// Category is one of the closed category set.
	Category Category `json:"category"`

	// Description is an optional free-form note.
	Description string `json:"description"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}
