package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/types"
)

// entryQueries holds the statements of one entry table. Table names are
// fixed here and never derived from request input.
type entryQueries struct {
	insert string
	list   string
}

var entryTables = map[types.Kind]entryQueries{
	types.KindIncome: {
		insert: `
		INSERT INTO income (user_id, amount, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		list: `
		SELECT id, user_id, amount, category, date, created_at
		FROM income
		WHERE user_id = $1
		ORDER BY id`,
	},
	types.KindExpenses: {
		insert: `
		INSERT INTO expenses (user_id, amount, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		list: `
		SELECT id, user_id, amount, category, date, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY id`,
	},
	types.KindAssets: {
		insert: `
		INSERT INTO assets (user_id, amount, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		list: `
		SELECT id, user_id, amount, category, date, created_at
		FROM assets
		WHERE user_id = $1
		ORDER BY id`,
	},
}

// LedgerRepository persists financial records. Every read and write is
// scoped to one owner.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func queriesFor(kind types.Kind) (entryQueries, error) {
	q, ok := entryTables[kind]
	if !ok {
		return entryQueries{}, fmt.Errorf("unsupported entry kind %q", kind)
	}
	return q, nil
}

// CreateEntry validates and stores an income, expense or asset entry,
// returning it with its generated id and creation time.
func (r *LedgerRepository) CreateEntry(ctx context.Context, entry types.Entry) (types.Entry, error) {
	q, err := queriesFor(entry.Kind)
	if err != nil {
		return types.Entry{}, err
	}
	if err := ledger.ValidateEntry(entry); err != nil {
		return types.Entry{}, err
	}

	entry.CreatedAt = time.Now().UTC()
	if err := r.db.QueryRowContext(
		ctx,
		q.insert,
		entry.UserID,
		entry.Amount,
		entry.Category,
		entry.Date,
		entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return types.Entry{}, err
	}
	return entry, nil
}

// ListEntries returns the owner's entries of one kind in insertion order.
func (r *LedgerRepository) ListEntries(ctx context.Context, kind types.Kind, userID int64) ([]types.Entry, error) {
	q, err := queriesFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q.list, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.Entry, 0)
	for rows.Next() {
		entry := types.Entry{Kind: kind}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Category,
			&entry.Date,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateLoan validates and stores a loan.
func (r *LedgerRepository) CreateLoan(ctx context.Context, loan types.Loan) (types.Loan, error) {
	if err := ledger.ValidateLoan(loan); err != nil {
		return types.Loan{}, err
	}

	loan.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO loans (user_id, type, borrower, lender, amount, interest, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		loan.UserID,
		string(loan.Type),
		nullString(loan.Borrower),
		nullString(loan.Lender),
		loan.Amount,
		loan.Interest,
		loan.DueDate,
		loan.CreatedAt,
	).Scan(&loan.ID); err != nil {
		return types.Loan{}, err
	}
	return loan, nil
}

// ListLoans returns the owner's loans in insertion order.
func (r *LedgerRepository) ListLoans(ctx context.Context, userID int64) ([]types.Loan, error) {
	const query = `
		SELECT id, user_id, type, borrower, lender, amount, interest, due_date, created_at
		FROM loans
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]types.Loan, 0)
	for rows.Next() {
		var loan types.Loan
		var loanType string
		var borrower, lender sql.NullString
		if err := rows.Scan(
			&loan.ID,
			&loan.UserID,
			&loanType,
			&borrower,
			&lender,
			&loan.Amount,
			&loan.Interest,
			&loan.DueDate,
			&loan.CreatedAt,
		); err != nil {
			return nil, err
		}
		loan.Type = types.LoanType(loanType)
		loan.Borrower = borrower.String
		loan.Lender = lender.String
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
