package types

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the same shape clients send them in.
	decimal.MarshalJSONWithoutQuotes = true
}

// Kind names a collection of financial records owned by a user.
type Kind string

// Supported record kinds. The values double as route segments.
const (
	KindIncome   Kind = "income"
	KindExpenses Kind = "expenses"
	KindAssets   Kind = "assets"
	KindLoans    Kind = "loans"
)

// EntryKinds lists the kinds stored as Entry values.
var EntryKinds = []Kind{KindIncome, KindExpenses, KindAssets}

// IsEntry reports whether records of this kind are stored as Entry values.
func (k Kind) IsEntry() bool {
	switch k {
	case KindIncome, KindExpenses, KindAssets:
		return true
	default:
		return false
	}
}

// IsFlow reports whether records of this kind describe activity in a period
// (income and expenses) rather than a standing position.
func (k Kind) IsFlow() bool {
	return k == KindIncome || k == KindExpenses
}

// Entry is a dated amount recorded as income, an expense, or an asset holding.
// Entries are immutable once stored.
type Entry struct {
	// ID is the unique identifier of the entry within its kind.
	ID int64 `json:"id" db:"id"`

	// UserID identifies the owning user.
	UserID int64 `json:"userId" db:"user_id"`

	// Kind is the collection this entry belongs to. It is implied by the
	// route the entry is read from and is not serialized.
	Kind Kind `json:"-" db:"-"`

	// Amount is the non-negative value of the entry.
	Amount decimal.Decimal `json:"amount" db:"amount"`

	// Category is the resolved, user-facing category label.
	Category string `json:"category" db:"category"`

	// Date is the calendar day the entry applies to.
	Date Date `json:"date" db:"date"`

	// CreatedAt is the timestamp at which the entry was stored.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
