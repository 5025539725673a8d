package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanType is the direction of a loan relative to its owner.
type LoanType string

const (
	// LoanGiven is money owed to the user by a borrower.
	LoanGiven LoanType = "given"

	// LoanTaken is money the user owes to a lender.
	LoanTaken LoanType = "taken"
)

// Valid reports whether t is a known direction.
func (t LoanType) Valid() bool {
	return t == LoanGiven || t == LoanTaken
}

// Loan is an amount lent to or borrowed from a counterparty.
// Exactly one of Borrower and Lender is populated, matching Type.
type Loan struct {
	// ID is the unique identifier of the loan.
	ID int64 `json:"id" db:"id"`

	// UserID identifies the owning user.
	UserID int64 `json:"userId" db:"user_id"`

	// Type is the loan direction.
	Type LoanType `json:"type" db:"type"`

	// Borrower is the counterparty of a loan given.
	Borrower string `json:"borrower,omitempty" db:"borrower"`

	// Lender is the counterparty of a loan taken.
	Lender string `json:"lender,omitempty" db:"lender"`

	// Amount is the non-negative principal.
	Amount decimal.Decimal `json:"amount" db:"amount"`

	// Interest is the non-negative interest rate in percent. Defaults to 0.
	Interest decimal.Decimal `json:"interest" db:"interest"`

	// DueDate is the calendar day the loan is due.
	DueDate Date `json:"dueDate" db:"due_date"`

	// CreatedAt is the timestamp at which the loan was stored.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Counterparty returns whichever of Borrower or Lender applies to the loan.
func (l Loan) Counterparty() string {
	if l.Type == LoanTaken {
		return l.Lender
	}
	return l.Borrower
}
