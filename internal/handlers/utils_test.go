package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    ledger.Filter
		wantErr string
	}{
		{name: "empty", query: "", want: ledger.Filter{Period: ledger.PeriodAll}},
		{name: "month", query: "period=month", want: ledger.Filter{Period: ledger.PeriodMonth}},
		{name: "unknown period selects all", query: "period=fortnight", want: ledger.Filter{Period: ledger.PeriodAll}},
		{name: "bad start", query: "period=custom&startDate=2026-13-01", wantErr: "invalid startDate"},
		{name: "bad end", query: "period=custom&startDate=2026-01-01&endDate=tomorrow", wantErr: "invalid endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/summary?"+tt.query, nil)
			got, err := parseFilter(r)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilterCustomBounds(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/summary?period=custom&startDate=2026-01-01&endDate=2026-01-31", nil)

	got, err := parseFilter(r)

	require.NoError(t, err)
	assert.Equal(t, ledger.PeriodCustom, got.Period)
	assert.Equal(t, "2026-01-01", got.Start.String())
	assert.Equal(t, "2026-01-31", got.End.String())
}

func TestUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int64
		wantErr bool
	}{
		{name: "string subject", value: "42", want: 42},
		{name: "int64 subject", value: int64(7), want: 7},
		{name: "missing", value: nil, wantErr: true},
		{name: "not a number", value: "alice", wantErr: true},
		{name: "zero", value: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.value != nil {
				ctx = context.WithValue(ctx, contextSubjectKey, tt.value)
			}
			got, err := userIDFromContext(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("wrapped: %w", &ledger.ValidationError{Field: "amount", Message: "amount must be positive"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   "amount must be positive",
		},
		{name: "not found", err: store.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: "not found"},
		{name: "unexpected", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError, wantBody: "failed to list income"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/income", nil)

			writeServiceError(w, r, log.Discard(), "list income", tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}
