// Package models defines the core domain models for BudgetSync.
//
// The central invariant of the system lives on Budget: its Spent field is a
// cached aggregate that must always equal the sum of Amount over the
// expenses whose BudgetID points at it, and its Expenses field must mirror
// exactly that set of expense ids. Every mutation path through the storage
// layer keeps both in sync.
//
// Relationships use ID strings rather than pointers to avoid circular
// references:
//   - User: registered account, identified by email (unique)
//   - Budget: spending envelope with a member set and an expense set
//   - Expense: one transaction, owned by its creator, attached to at most
//     one budget at a time
//   - Invite: pending offer of budget membership sent to an email address
package models
