package model

// StoreStats holds row counts for the tracker tables.
type StoreStats struct {
	Users        int `db:"users"`
	Transactions int `db:"transactions"`
	Budgets      int `db:"budgets"`
}
