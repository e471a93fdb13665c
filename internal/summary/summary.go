// Package summary computes spending breakdowns for a budget from its
// expenses. It is a pure aggregation layer with no storage dependencies.
package summary

import (
	"sort"

	"github.com/mmynk/budgetsync/internal/models"
)

// CategoryTotal is the amount spent in one category and its share of the
// budget's total spending.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Amount   float64         `json:"amount"`
	Count    int             `json:"count"`
	Share    float64         `json:"share"` // fraction of total spent, 0 when nothing is spent
}

// MemberTotal is the amount one member contributed to the budget's spending.
type MemberTotal struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// BudgetSummary is the spending breakdown for a single budget.
type BudgetSummary struct {
	BudgetID     string          `json:"budgetId"`
	TotalAmount  float64         `json:"totalAmount"`
	Spent        float64         `json:"spent"`
	Remaining    float64         `json:"remaining"` // negative when overspent
	ExpenseCount int             `json:"expenseCount"`
	ByCategory   []CategoryTotal `json:"byCategory"`
	ByMember     []MemberTotal   `json:"byMember"`
}

// Summarize aggregates a budget's expenses into per-category and per-member
// totals. The spent figure is re-derived from the expenses rather than read
// from the budget record, so the two can be cross-checked by callers.
func Summarize(budget *models.Budget, expenses []*models.Expense) *BudgetSummary {
	spent := 0.0
	byCategory := make(map[models.Category]*CategoryTotal)
	byMember := make(map[string]*MemberTotal)

	for _, e := range expenses {
		spent += e.Amount

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Amount += e.Amount
		ct.Count++

		mt, ok := byMember[e.UserID]
		if !ok {
			mt = &MemberTotal{UserID: e.UserID}
			byMember[e.UserID] = mt
		}
		mt.Amount += e.Amount
		mt.Count++
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if spent > 0 {
			ct.Share = ct.Amount / spent
		}
		categories = append(categories, *ct)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})

	members := make([]MemberTotal, 0, len(byMember))
	for _, mt := range byMember {
		members = append(members, *mt)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Amount != members[j].Amount {
			return members[i].Amount > members[j].Amount
		}
		return members[i].UserID < members[j].UserID
	})

	return &BudgetSummary{
		BudgetID:     budget.ID,
		TotalAmount:  budget.TotalAmount,
		Spent:        spent,
		Remaining:    budget.TotalAmount - spent,
		ExpenseCount: len(expenses),
		ByCategory:   categories,
		ByMember:     members,
	}
}
