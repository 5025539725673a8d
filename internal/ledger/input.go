package ledger

import (
	"strings"

	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
)

// EntryInput is an unvalidated income, expense or asset submission.
type EntryInput struct {
	Amount        decimal.NullDecimal `json:"amount"`
	Category      string              `json:"category"`
	CategoryOther string              `json:"categoryOther,omitempty"`
	Date          string              `json:"date"`
}

// LoanInput is an unvalidated loan submission.
type LoanInput struct {
	Type     types.LoanType      `json:"type"`
	Borrower string              `json:"borrower,omitempty"`
	Lender   string              `json:"lender,omitempty"`
	Amount   decimal.NullDecimal `json:"amount"`
	Interest decimal.NullDecimal `json:"interest"`
	DueDate  string              `json:"dueDate"`
}

// NewEntry turns an input into a validated entry of the given kind owned by userID.
func NewEntry(kind types.Kind, userID int64, in EntryInput) (types.Entry, error) {
	if !in.Amount.Valid {
		return types.Entry{}, invalid("amount", "amount must be a non-negative number")
	}
	category, err := ParseCategory(in.Category, in.CategoryOther)
	if err != nil {
		return types.Entry{}, err
	}
	date, err := types.ParseDate(in.Date)
	if err != nil {
		return types.Entry{}, invalid("date", "valid date is required")
	}

	entry := types.Entry{
		UserID:   userID,
		Kind:     kind,
		Amount:   in.Amount.Decimal,
		Category: category.String(),
		Date:     date,
	}
	if err := ValidateEntry(entry); err != nil {
		return types.Entry{}, err
	}
	return entry, nil
}

// NewLoan turns an input into a validated loan owned by userID. A missing
// interest rate defaults to zero.
func NewLoan(userID int64, in LoanInput) (types.Loan, error) {
	if !in.Amount.Valid {
		return types.Loan{}, invalid("amount", "amount must be a non-negative number")
	}
	dueDate, err := types.ParseDate(in.DueDate)
	if err != nil {
		return types.Loan{}, invalid("dueDate", "valid dueDate is required")
	}

	interest := decimal.Zero
	if in.Interest.Valid {
		interest = in.Interest.Decimal
	}

	loan := types.Loan{
		UserID:   userID,
		Type:     types.LoanType(strings.ToLower(strings.TrimSpace(string(in.Type)))),
		Borrower: strings.TrimSpace(in.Borrower),
		Lender:   strings.TrimSpace(in.Lender),
		Amount:   in.Amount.Decimal,
		Interest: interest,
		DueDate:  dueDate,
	}
	if err := ValidateLoan(loan); err != nil {
		return types.Loan{}, err
	}
	return loan, nil
}
