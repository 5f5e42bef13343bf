// Package storage provides the data persistence layer for the tracker.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidTxn       = errors.New("invalid transaction")
	ErrInvalidBudget    = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateUserID(id model.UserID) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUserID, id)
	}
	return nil
}

func validateUser(firstName, lastName, email, passwordHash string) error {
	if err := validateString(firstName, "firstName"); err != nil {
		return err
	}
	if err := validateString(lastName, "lastName"); err != nil {
		return err
	}
	if err := validateString(email, "email"); err != nil {
		return err
	}
	return validateString(passwordHash, "passwordHash")
}

// validateTransaction validates a single transaction before insert.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if err := validateUserID(txn.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTxn, err)
	}
	if strings.TrimSpace(txn.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidTxn)
	}
	if strings.TrimSpace(txn.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTxn)
	}
	if !txn.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTxn, txn.Type)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidTxn, txn.Amount)
	}
	return nil
}

// validateBudget validates a single budget before insert.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if err := validateUserID(budget.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	}
	if strings.TrimSpace(budget.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if !budget.Period.IsValid() {
		return fmt.Errorf("%w: unknown period %q", ErrInvalidBudget, budget.Period)
	}
	if budget.StartDate.IsZero() || budget.EndDate.IsZero() {
		return fmt.Errorf("%w: missing period bounds", ErrInvalidBudget)
	}
	if budget.EndDate.Before(budget.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDateRange,
			budget.EndDate.Format(dateLayout), budget.StartDate.Format(dateLayout))
	}
	if !budget.Limit.IsPositive() {
		return fmt.Errorf("%w: limit must be positive, got %s", ErrInvalidBudget, budget.Limit)
	}
	return nil
}
