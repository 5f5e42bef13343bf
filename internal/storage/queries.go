package storage

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // sqlite3 dialect

	"github.com/Veraticus/finance-tracker/internal/model"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"

	tableUsers        = "users"
	tableTransactions = "transactions"
	tableBudgets      = "budgets"

	colUserID        = "user_id"
	colTransactionID = "transaction_id"
	colBudgetID      = "budget_id"
	colEmail         = "email"
	colCategory      = "category"
	colPeriodType    = "period_type"
	colTxnType       = "transaction_type"
	colDate          = "date"

	enumTransactionType = "transaction_type"
	enumPeriodType      = "period_type"

	dateLayout = "2006-01-02"

	// statsQuery is plain SQL understood by every supported dialect.
	statsQuery = `SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM transactions) AS transactions,
		(SELECT COUNT(*) FROM budgets) AS budgets`
)

// resetTables lists tables in foreign-key safe delete order.
var resetTables = []string{tableBudgets, tableTransactions, tableUsers}

// statements builds the SQL shared by the SQLite and Postgres backends.
// Postgres stores the transaction and period types as enums, so values bound
// to those columns are cast there.
type statements struct {
	dialect   goqu.DialectWrapper
	castEnums bool
}

func newStatements(dialect string) statements {
	return statements{
		dialect:   goqu.Dialect(dialect),
		castEnums: dialect == dialectPostgres,
	}
}

func (s statements) enum(value, enumType string) any {
	if s.castEnums {
		return goqu.Cast(goqu.V(value), enumType)
	}
	return value
}

func (s statements) enumColumn(column string) any {
	if s.castEnums {
		return goqu.Cast(goqu.C(column), "TEXT").As(column)
	}
	return goqu.C(column)
}

func (s statements) insertUser(firstName, lastName, email, passwordHash string) *goqu.InsertDataset {
	return s.dialect.Insert(tableUsers).Prepared(true).Rows(goqu.Record{
		"first_name": firstName,
		"last_name":  lastName,
		colEmail:     email,
		"password":   passwordHash,
	})
}

func (s statements) selectUserByEmail(email string) (string, []any, error) {
	return s.dialect.From(tableUsers).Prepared(true).
		Select(colUserID, "first_name", "last_name", colEmail, "password", "created_at", "updated_at").
		Where(goqu.C(colEmail).Eq(email)).
		ToSQL()
}

func (s statements) insertTransaction(txn *model.Transaction) (string, []any, error) {
	return s.dialect.Insert(tableTransactions).Prepared(true).Rows(goqu.Record{
		colUserID:      int64(txn.UserID),
		"title":        txn.Title,
		colCategory:    txn.Category,
		"sub_category": txn.SubCategory,
		colTxnType:     s.enum(string(txn.Type), enumTransactionType),
		"amount":       txn.Amount.StringFixed(2),
		colDate:        txn.Date.UTC(),
		"description":  txn.Description,
		"location":     txn.Location,
	}).ToSQL()
}

func (s statements) selectTransactionsByUser(userID model.UserID) (string, []any, error) {
	return s.dialect.From(tableTransactions).Prepared(true).
		Select(colTransactionID, colUserID, "title", colCategory, "sub_category",
			s.enumColumn(colTxnType), "amount", colDate, "description", "location", "created_at").
		Where(goqu.C(colUserID).Eq(int64(userID))).
		Order(goqu.C(colTransactionID).Asc()).
		ToSQL()
}

func (s statements) insertBudget(budget *model.Budget) (string, []any, error) {
	return s.dialect.Insert(tableBudgets).Prepared(true).Rows(goqu.Record{
		colUserID:      int64(budget.UserID),
		colCategory:    budget.Category,
		"sub_category": budget.SubCategory,
		"budget_limit": budget.Limit.StringFixed(2),
		colPeriodType:  s.enum(string(budget.Period), enumPeriodType),
		"start_date":   calendarDate(budget.StartDate),
		"end_date":     calendarDate(budget.EndDate),
		"description":  budget.Description,
	}).ToSQL()
}

func (s statements) selectBudgetsByUser(userID model.UserID) (string, []any, error) {
	return s.dialect.From(tableBudgets).Prepared(true).
		Select(colBudgetID, colUserID, colCategory, "sub_category", "budget_limit",
			s.enumColumn(colPeriodType), "start_date", "end_date", "description", "created_at").
		Where(goqu.C(colUserID).Eq(int64(userID))).
		Order(goqu.C(colBudgetID).Asc()).
		ToSQL()
}

// calendarDate drops the time of day so a date column stores the intended day
// regardless of the caller's location.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sequenceNames matches the sqlite_sequence rows of the given tables.
func sequenceNames(tables []string) exp.BooleanExpression {
	return goqu.C("name").In(tables)
}
