package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.December, 1), d)

	d, err = ParseDate("2025-12-01T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", d.String())

	for _, bad := range []string{"", "  ", "12/01/2025", "2025-02-30", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		Paid Date `json:"paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-01-15","paid":null}`), &payload))
	assert.Equal(t, "2026-01-15", payload.Due.String())
	assert.True(t, payload.Paid.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-01-15","paid":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":42}`), &payload))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-02-29"))
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	require.NoError(t, d.Scan([]byte("2024-03-01T00:00:00Z")))
	assert.Equal(t, NewDate(2024, time.March, 1), d)

	require.NoError(t, d.Scan(time.Date(2024, time.April, 2, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2024, time.April, 2), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(12))
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2025, time.December, 31)
	b := NewDate(2026, time.January, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.Equal(t, b, NewDate(2025, time.December, 32))
}
