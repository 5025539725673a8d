// Package ledger holds the domain rules of the balance sheet: record
// validation, category resolution, period filtering and summary aggregation.
//
// Nothing in this package performs I/O. Filtering and aggregation assume
// records have already passed validation.
package ledger

import (
	"errors"
	"strings"

	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
)

// Stored precision of money and interest columns, NUMERIC(18,2) and NUMERIC(9,4).
const (
	amountIntDigits   = 16
	amountPlaces      = 2
	interestIntDigits = 5
	interestPlaces    = 4
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// fits reports whether d is stored without rounding or overflow in a column
// with intDigits integer digits and places decimal places.
func fits(d decimal.Decimal, intDigits, places int32) bool {
	return d.Equal(d.Round(places)) && d.Abs().LessThan(decimal.New(1, intDigits))
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid("amount", "amount must be a non-negative number")
	}
	if !fits(amount, amountIntDigits, amountPlaces) {
		return invalid("amount", "amount must have at most 16 integer digits and 2 decimal places")
	}
	return nil
}

// ValidateEntry checks the invariants of an income, expense or asset entry.
func ValidateEntry(entry types.Entry) error {
	if !entry.Kind.IsEntry() {
		return invalid("kind", "unknown record kind")
	}
	if err := validateAmount(entry.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(entry.Category) == "" {
		return invalid("category", "category is required")
	}
	if entry.Date.IsZero() {
		return invalid("date", "valid date is required")
	}
	return nil
}

// ValidateLoan checks the invariants of a loan, including that exactly one
// counterparty is named and that it matches the loan direction.
func ValidateLoan(loan types.Loan) error {
	if err := validateAmount(loan.Amount); err != nil {
		return err
	}
	if loan.Interest.IsNegative() {
		return invalid("interest", "interest must be a non-negative number")
	}
	if !fits(loan.Interest, interestIntDigits, interestPlaces) {
		return invalid("interest", "interest must have at most 5 integer digits and 4 decimal places")
	}
	if loan.DueDate.IsZero() {
		return invalid("dueDate", "valid dueDate is required")
	}

	borrower := strings.TrimSpace(loan.Borrower)
	lender := strings.TrimSpace(loan.Lender)
	switch loan.Type {
	case types.LoanGiven:
		if borrower == "" {
			return invalid("borrower", "borrower is required for loans given")
		}
		if lender != "" {
			return invalid("lender", "lender must be empty for loans given")
		}
	case types.LoanTaken:
		if lender == "" {
			return invalid("lender", "lender is required for loans taken")
		}
		if borrower != "" {
			return invalid("borrower", "borrower must be empty for loans taken")
		}
	default:
		return invalid("type", "type must be 'given' or 'taken'")
	}
	return nil
}
