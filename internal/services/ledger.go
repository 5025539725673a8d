package services

import (
	"context"
	"fmt"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/mq"
	"github.com/balancesheet-pro/apiserver/types"
	"golang.org/x/sync/errgroup"
)

// LedgerRepository defines owner-scoped persistence for financial records.
type LedgerRepository interface {
	CreateEntry(ctx context.Context, entry types.Entry) (types.Entry, error)
	ListEntries(ctx context.Context, kind types.Kind, userID int64) ([]types.Entry, error)
	CreateLoan(ctx context.Context, loan types.Loan) (types.Loan, error)
	ListLoans(ctx context.Context, userID int64) ([]types.Loan, error)
}

// RecordPublisher announces stored records.
type RecordPublisher interface {
	PublishRecordCreated(ctx context.Context, event mq.RecordCreatedEvent) (string, error)
}

// CreationRecorder counts stored records.
type CreationRecorder interface {
	RecordCreated(kind string)
}

// LedgerOption configures a LedgerService.
type LedgerOption func(*LedgerService)

func WithPublisher(publisher RecordPublisher) LedgerOption {
	return func(s *LedgerService) { s.publisher = publisher }
}

func WithRecorder(recorder CreationRecorder) LedgerOption {
	return func(s *LedgerService) { s.recorder = recorder }
}

func WithLogger(logger *log.Logger) LedgerOption {
	return func(s *LedgerService) { s.logger = logger.WithComponent(log.ComponentLedger) }
}

// WithClock overrides the reference instant used for period filters.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

// LedgerService encapsulates record and summary use-cases.
type LedgerService struct {
	repo      LedgerRepository
	publisher RecordPublisher
	recorder  CreationRecorder
	logger    *log.Logger
	now       func() time.Time
}

func NewLedgerService(repo LedgerRepository, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		repo:   repo,
		logger: log.Default().WithComponent(log.ComponentLedger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service's reference instant.
func (s *LedgerService) Now() time.Time {
	return s.now()
}

// AddEntry validates and stores an income, expense or asset entry.
func (s *LedgerService) AddEntry(ctx context.Context, kind types.Kind, userID int64, in ledger.EntryInput) (types.Entry, error) {
	entry, err := ledger.NewEntry(kind, userID, in)
	if err != nil {
		return types.Entry{}, err
	}
	stored, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return types.Entry{}, fmt.Errorf("store %s: %w", kind, err)
	}
	s.announce(ctx, mq.RecordCreatedEvent{
		Kind:       kind,
		ID:         stored.ID,
		UserID:     userID,
		Amount:     stored.Amount,
		OccurredAt: stored.CreatedAt,
	})
	return stored, nil
}

// AddLoan validates and stores a loan.
func (s *LedgerService) AddLoan(ctx context.Context, userID int64, in ledger.LoanInput) (types.Loan, error) {
	loan, err := ledger.NewLoan(userID, in)
	if err != nil {
		return types.Loan{}, err
	}
	stored, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return types.Loan{}, fmt.Errorf("store loan: %w", err)
	}
	s.announce(ctx, mq.RecordCreatedEvent{
		Kind:       types.KindLoans,
		ID:         stored.ID,
		UserID:     userID,
		Amount:     stored.Amount,
		OccurredAt: stored.CreatedAt,
	})
	return stored, nil
}

// announce runs after the record is committed, so failures are only logged.
func (s *LedgerService) announce(ctx context.Context, event mq.RecordCreatedEvent) {
	if s.recorder != nil {
		s.recorder.RecordCreated(string(event.Kind))
	}
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.PublishRecordCreated(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish record event failed",
			log.FieldKind, event.Kind,
			log.FieldRecordID, event.ID,
			log.FieldUserID, event.UserID,
			log.FieldError, err,
		)
	}
}

func (s *LedgerService) ListEntries(ctx context.Context, kind types.Kind, userID int64) ([]types.Entry, error) {
	return s.repo.ListEntries(ctx, kind, userID)
}

func (s *LedgerService) ListLoans(ctx context.Context, userID int64) ([]types.Loan, error) {
	return s.repo.ListLoans(ctx, userID)
}

// Snapshot loads every record of the owner, fetching the four kinds concurrently.
func (s *LedgerService) Snapshot(ctx context.Context, userID int64) (ledger.Snapshot, error) {
	var snapshot ledger.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	fetch := func(kind types.Kind, dst *[]types.Entry) {
		g.Go(func() error {
			entries, err := s.repo.ListEntries(ctx, kind, userID)
			if err != nil {
				return fmt.Errorf("list %s: %w", kind, err)
			}
			*dst = entries
			return nil
		})
	}
	fetch(types.KindIncome, &snapshot.Income)
	fetch(types.KindExpenses, &snapshot.Expenses)
	fetch(types.KindAssets, &snapshot.Assets)
	g.Go(func() error {
		loans, err := s.repo.ListLoans(ctx, userID)
		if err != nil {
			return fmt.Errorf("list loans: %w", err)
		}
		snapshot.Loans = loans
		return nil
	})

	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	return snapshot, nil
}

// SummaryResult is a summary together with the window it covers.
type SummaryResult struct {
	Period string        `json:"period"`
	Range  *ledger.Range `json:"range,omitempty"`
	ledger.Summary
}

// Summary aggregates the owner's records after applying filter at the
// service's current instant.
func (s *LedgerService) Summary(ctx context.Context, userID int64, filter ledger.Filter) (SummaryResult, error) {
	filtered, now, err := s.Filtered(ctx, userID, filter)
	if err != nil {
		return SummaryResult{}, err
	}

	result := SummaryResult{
		Period:  filter.Applied(now).Label(),
		Summary: ledger.Summarize(filtered),
	}
	if window, ok := filter.Range(now); ok {
		result.Range = &window
	}
	return result, nil
}

// Filtered loads the owner's snapshot and narrows it to filter. It returns
// the instant the filter was resolved against.
func (s *LedgerService) Filtered(ctx context.Context, userID int64, filter ledger.Filter) (ledger.Snapshot, time.Time, error) {
	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return ledger.Snapshot{}, time.Time{}, err
	}
	now := s.now()
	return ledger.Apply(snapshot, filter, now), now, nil
}
