package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money going out from money coming in.
type TransactionType string

const (
	// TransactionTypeExpense is money leaving the user's accounts.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeIncome is money arriving in the user's accounts.
	TransactionTypeIncome TransactionType = "income"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Transaction is a single income or expense entry belonging to a user.
type Transaction struct {
	Date        time.Time       `db:"date"`
	CreatedAt   time.Time       `db:"created_at"`
	Amount      decimal.Decimal `db:"amount"`
	Title       string          `db:"title"`
	Category    string          `db:"category"`
	SubCategory string          `db:"sub_category"`
	Type        TransactionType `db:"transaction_type"`
	Description string          `db:"description"`
	Location    string          `db:"location"`
	ID          int64           `db:"transaction_id"`
	UserID      UserID          `db:"user_id"`
}

// IsIncome reports whether the transaction adds money.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}
