package ledger

import (
	"strings"
	"time"

	"github.com/balancesheet-pro/apiserver/types"
)

// Period selects the window flow records are summarized over.
type Period string

const (
	PeriodAll    Period = ""
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// ParsePeriod normalizes a selector. Unknown selectors map to PeriodAll.
func ParsePeriod(value string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(value))); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return p
	default:
		return PeriodAll
	}
}

// Label names the period in responses. PeriodAll is "all".
func (p Period) Label() string {
	if p == PeriodAll {
		return "all"
	}
	return string(p)
}

// Filter is a period selector plus the explicit bounds used by PeriodCustom.
type Filter struct {
	Period Period
	Start  types.Date
	End    types.Date
}

// Range is an inclusive window of instants.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Range resolves the filter against now. The boolean is false when the
// filter selects everything: no period, an unknown period, or a custom
// period missing either bound.
func (f Filter) Range(now time.Time) (Range, bool) {
	loc := now.Location()
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	switch f.Period {
	case PeriodToday:
		return Range{Start: midnight, End: endOfDay(midnight)}, true
	case PeriodWeek:
		// Weeks start on Sunday and run up to the current instant.
		start := midnight.AddDate(0, 0, -int(now.Weekday()))
		return Range{Start: start, End: now}, true
	case PeriodMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(last)}, true
	case PeriodYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		last := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(last)}, true
	case PeriodCustom:
		if f.Start.IsZero() || f.End.IsZero() {
			return Range{}, false
		}
		return Range{Start: f.Start.In(loc), End: endOfDay(f.End.In(loc))}, true
	default:
		return Range{}, false
	}
}

// Applied returns the period the filter actually selects at now. A custom
// period missing either bound selects everything and reports PeriodAll.
func (f Filter) Applied(now time.Time) Period {
	if _, ok := f.Range(now); !ok {
		return PeriodAll
	}
	return f.Period
}

// endOfDay clamps to 23:59:59 of the day containing t.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Snapshot is the full set of records of one user, grouped by kind.
type Snapshot struct {
	Income   []types.Entry
	Expenses []types.Entry
	Assets   []types.Entry
	Loans    []types.Loan
}

// Apply narrows income and expenses to the filter window. Assets and loans
// describe standing positions and always pass through. The input is not
// modified.
func Apply(snapshot Snapshot, filter Filter, now time.Time) Snapshot {
	window, ok := filter.Range(now)
	if !ok {
		return snapshot
	}
	return Snapshot{
		Income:   entriesWithin(snapshot.Income, window, now.Location()),
		Expenses: entriesWithin(snapshot.Expenses, window, now.Location()),
		Assets:   snapshot.Assets,
		Loans:    snapshot.Loans,
	}
}

func entriesWithin(entries []types.Entry, window Range, loc *time.Location) []types.Entry {
	kept := make([]types.Entry, 0, len(entries))
	for _, entry := range entries {
		if window.Contains(entry.Date.In(loc)) {
			kept = append(kept, entry)
		}
	}
	return kept
}
