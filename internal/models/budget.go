package models

// Budget represents a named spending envelope shared by a set of members.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string `json:"id"`

	// Name is the display name of the budget.
	Name string `json:"name"`

	// Description is an optional free-form note.
	Description string `json:"description"`

	// TotalAmount is the planned total for the budget.
	TotalAmount float64 `json:"totalAmount"`

	// Spent is the cached sum of Amount over all expenses attached to this
	// budget. It is recomputed transactionally with every expense mutation
	// and must never be written directly by callers.
	Spent float64 `json:"spent"`

	// Members are the user IDs with read/write access to this budget.
	Members []string `json:"members"`

	// Expenses are the IDs of expenses whose BudgetID points at this
	// budget. Derived from the expense table; listed here so responses
	// match the persisted record shape.
	Expenses []string `json:"expenses"`

	// CreatedAt is the Unix timestamp when the budget was created.
	CreatedAt int64 `json:"createdAt"`
}

// Remaining returns TotalAmount - Spent. Negative when over budget; callers
// must not clamp it.
func (b *Budget) Remaining() float64 {
	return b.TotalAmount - b.Spent
}

// HasMember reports whether the given user is a member of the budget.
func (b *Budget) HasMember(userID string) bool {
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}
