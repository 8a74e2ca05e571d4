package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only is midnight", "2025-01-05", time.Date(2025, 1, 5, 0, 0, 0, 0, loc)},
		{"minutes", "2025-01-05 09:00", time.Date(2025, 1, 5, 9, 0, 0, 0, loc)},
		{"seconds", "2025-01-05 09:00:30", time.Date(2025, 1, 5, 9, 0, 30, 0, loc)},
		{"surrounding space", "  2025-11-20 14:30 ", time.Date(2025, 11, 20, 14, 30, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, input := range []string{"not-a-date", "2025-13-01", "05/01/2025", "2025-01-05T09:00", ""} {
		_, err := Parse(input, time.UTC)
		assert.ErrorIs(t, err, ErrInvalid, input)
	}
}

func TestParseDefaultsToLocal(t *testing.T) {
	got, err := Parse("2025-11-20 14:30", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}

func TestFormatInputRoundTrip(t *testing.T) {
	for _, ts := range []time.Time{
		time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 8, 15, 42, 0, time.UTC),
	} {
		back, err := Parse(FormatInput(ts), time.UTC)
		require.NoError(t, err)
		assert.True(t, ts.Equal(back))
	}
	assert.Equal(t, "2025-03-01 08:15", Format(time.Date(2025, 3, 1, 8, 15, 42, 0, time.UTC)))
}
