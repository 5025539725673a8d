package ledger

import (
	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
)

// Totals are the summed amounts of a snapshot and the figures derived from them.
type Totals struct {
	Income     decimal.Decimal `json:"income"`
	Expenses   decimal.Decimal `json:"expenses"`
	Assets     decimal.Decimal `json:"assets"`
	LoansGiven decimal.Decimal `json:"loansGiven"`
	LoansTaken decimal.Decimal `json:"loansTaken"`
	CashFlow   decimal.Decimal `json:"cashFlow"`
	NetWorth   decimal.Decimal `json:"netWorth"`

	// NetAssets is the position before cash flow: assets plus loans given
	// minus loans taken.
	NetAssets decimal.Decimal `json:"netAssets"`
}

// Counts are record counts per kind. Loans counts both directions.
type Counts struct {
	Income   int `json:"income"`
	Expenses int `json:"expenses"`
	Assets   int `json:"assets"`
	Loans    int `json:"loans"`
}

// Summary is the aggregate view of a snapshot.
type Summary struct {
	Totals Totals `json:"totals"`
	Count  Counts `json:"count"`
}

// Summarize reduces a snapshot to totals and counts.
//
//	cashFlow = income - expenses
//	netWorth = assets + loansGiven - loansTaken + cashFlow
//
// netWorth always folds in the derived cashFlow, never raw income and
// expenses. Sums are exact, so the result does not depend on record order.
func Summarize(snapshot Snapshot) Summary {
	var totals Totals
	var counts Counts

	totals.Income, counts.Income = sumEntries(snapshot.Income)
	totals.Expenses, counts.Expenses = sumEntries(snapshot.Expenses)
	totals.Assets, counts.Assets = sumEntries(snapshot.Assets)

	totals.LoansGiven, totals.LoansTaken = decimal.Zero, decimal.Zero
	for _, loan := range snapshot.Loans {
		switch loan.Type {
		case types.LoanGiven:
			totals.LoansGiven = totals.LoansGiven.Add(loan.Amount)
			counts.Loans++
		case types.LoanTaken:
			totals.LoansTaken = totals.LoansTaken.Add(loan.Amount)
			counts.Loans++
		}
	}

	totals.CashFlow = totals.Income.Sub(totals.Expenses)
	totals.NetAssets = totals.Assets.Add(totals.LoansGiven).Sub(totals.LoansTaken)
	totals.NetWorth = totals.Assets.Add(totals.LoansGiven).Sub(totals.LoansTaken).Add(totals.CashFlow)

	return Summary{Totals: totals, Count: counts}
}

func sumEntries(entries []types.Entry) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}
	return total, len(entries)
}
