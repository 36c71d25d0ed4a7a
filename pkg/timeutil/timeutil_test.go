package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISO8601RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	formatted := FormatISO(ts)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", formatted)

	parsed, err := ParseISO(formatted)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestParseISO_Invalid(t *testing.T) {
	_, err := ParseISO("14/03/2026")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Saturday, 14 March 2026", FormatDate(ts))
}
