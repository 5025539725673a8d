// Package report shapes aggregated ledger data into the balance sheet view
// consumed by clients.
package report

import (
	"sort"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
)

const (
	DirectionReceive = "You Receive Payment"
	DirectionPay     = "You Pay"
)

// FormatAmount renders an amount as dollars with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// Figure is an amount paired with its display string.
type Figure struct {
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

func figure(amount decimal.Decimal) Figure {
	return Figure{Amount: amount, Display: FormatAmount(amount)}
}

// Totals mirrors ledger.Totals with display strings.
type Totals struct {
	Income     Figure `json:"income"`
	Expenses   Figure `json:"expenses"`
	Assets     Figure `json:"assets"`
	LoansGiven Figure `json:"loansGiven"`
	LoansTaken Figure `json:"loansTaken"`
	CashFlow   Figure `json:"cashFlow"`
	NetWorth   Figure `json:"netWorth"`
	NetAssets  Figure `json:"netAssets"`
}

// LoanRow is a loan with its presentation flags.
type LoanRow struct {
	types.Loan
	Overdue   bool   `json:"overdue"`
	Direction string `json:"direction"`
}

// BalanceSheet is the rendered statement of one user.
type BalanceSheet struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Period      string        `json:"period"`
	Totals      Totals        `json:"totals"`
	Count       ledger.Counts `json:"count"`

	CashFlowNegative bool `json:"cashFlowNegative"`
	NetWorthNegative bool `json:"netWorthNegative"`

	Income     []types.Entry `json:"income"`
	Expenses   []types.Entry `json:"expenses"`
	Assets     []types.Entry `json:"assets"`
	LoansGiven []LoanRow     `json:"loansGiven"`
	LoansTaken []LoanRow     `json:"loansTaken"`
	Loans      []LoanRow     `json:"loans"`
}

// Build renders a filtered snapshot and its summary. The snapshot is not
// modified; tables are sorted copies.
func Build(snapshot ledger.Snapshot, summary ledger.Summary, period ledger.Period, now time.Time) BalanceSheet {
	t := summary.Totals
	sheet := BalanceSheet{
		GeneratedAt: now,
		Period:      period.Label(),
		Totals: Totals{
			Income:     figure(t.Income),
			Expenses:   figure(t.Expenses),
			Assets:     figure(t.Assets),
			LoansGiven: figure(t.LoansGiven),
			LoansTaken: figure(t.LoansTaken),
			CashFlow:   figure(t.CashFlow),
			NetWorth:   figure(t.NetWorth),
			NetAssets:  figure(t.NetAssets),
		},
		Count:            summary.Count,
		CashFlowNegative: t.CashFlow.IsNegative(),
		NetWorthNegative: t.NetWorth.IsNegative(),
		Income:           sortedEntries(snapshot.Income),
		Expenses:         sortedEntries(snapshot.Expenses),
		Assets:           sortedEntries(snapshot.Assets),
		LoansGiven:       []LoanRow{},
		LoansTaken:       []LoanRow{},
	}

	sheet.Loans = loanRows(snapshot.Loans, now)
	for _, row := range sheet.Loans {
		switch row.Type {
		case types.LoanGiven:
			sheet.LoansGiven = append(sheet.LoansGiven, row)
		case types.LoanTaken:
			sheet.LoansTaken = append(sheet.LoansTaken, row)
		}
	}
	return sheet
}

// sortedEntries orders entries newest first, breaking ties by id descending.
func sortedEntries(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// loanRows orders loans soonest due first, breaking ties by id ascending.
func loanRows(loans []types.Loan, now time.Time) []LoanRow {
	rows := make([]LoanRow, 0, len(loans))
	for _, loan := range loans {
		rows = append(rows, LoanRow{
			Loan:      loan,
			Overdue:   loan.DueDate.In(now.Location()).Before(now),
			Direction: direction(loan.Type),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DueDate != rows[j].DueDate {
			return rows[i].DueDate.Before(rows[j].DueDate)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func direction(t types.LoanType) string {
	if t == types.LoanTaken {
		return DirectionPay
	}
	return DirectionReceive
}
