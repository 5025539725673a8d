package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/internal/report"
	"github.com/balancesheet-pro/apiserver/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrExportUnavailable is returned when no object storage is configured.
	ErrExportUnavailable = errors.New("statement export is not configured")

	// ErrExportNotFound is returned when an export id is unknown to the owner.
	ErrExportNotFound = errors.New("statement export not found")
)

// ExportResult locates an exported statement.
type ExportResult struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// StatementService renders balance sheets and exports them to object storage.
type StatementService struct {
	ledger  *LedgerService
	objects storage.ObjectStorage
}

// NewStatementService constructs the service. objects may be nil, which
// disables exports.
func NewStatementService(ledgerService *LedgerService, objects storage.ObjectStorage) *StatementService {
	return &StatementService{ledger: ledgerService, objects: objects}
}

// BalanceSheet renders the owner's statement for the filter.
func (s *StatementService) BalanceSheet(ctx context.Context, userID int64, filter ledger.Filter) (report.BalanceSheet, error) {
	filtered, now, err := s.ledger.Filtered(ctx, userID, filter)
	if err != nil {
		return report.BalanceSheet{}, err
	}
	return report.Build(filtered, ledger.Summarize(filtered), filter.Applied(now), now), nil
}

// Export renders the statement and stores it as JSON.
func (s *StatementService) Export(ctx context.Context, userID int64, filter ledger.Filter) (ExportResult, error) {
	if s.objects == nil {
		return ExportResult{}, ErrExportUnavailable
	}

	sheet, err := s.BalanceSheet(ctx, userID, filter)
	if err != nil {
		return ExportResult{}, err
	}

	id := uuid.NewString()
	key := exportKey(userID, id)
	if err := storage.PutJSON(ctx, s.objects, key, sheet); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{ID: id, Bucket: s.objects.Bucket(), Key: key}, nil
}

// Fetch returns a previously exported statement of the owner.
func (s *StatementService) Fetch(ctx context.Context, userID int64, exportID string) ([]byte, error) {
	if s.objects == nil {
		return nil, ErrExportUnavailable
	}
	id, err := uuid.Parse(exportID)
	if err != nil {
		return nil, ErrExportNotFound
	}

	data, err := storage.GetBytes(ctx, s.objects, exportKey(userID, id.String()))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return data, nil
}

func exportKey(userID int64, id string) string {
	return fmt.Sprintf("statements/%d/%s.json", userID, id)
}
