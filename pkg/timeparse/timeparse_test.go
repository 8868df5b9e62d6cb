package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	now := time.Date(2026, 8, 14, 15, 30, 0, 0, time.UTC)
	parser := New(func() time.Time { return now })

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "now", input: "now", want: now},
		{name: "today is end of today", input: "today", want: time.Date(2026, 8, 14, 23, 59, 59, 0, time.UTC)},
		{name: "tomorrow is end of next day", input: "Tomorrow", want: time.Date(2026, 8, 15, 23, 59, 59, 0, time.UTC)},
		{name: "relative minutes", input: "in 30 minutes", want: now.Add(30 * time.Minute)},
		{name: "relative hours", input: "in 3 hours", want: now.Add(3 * time.Hour)},
		{name: "relative single day", input: "in 1 day", want: now.Add(24 * time.Hour)},
		{name: "date only", input: "2026-09-01", want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{name: "datetime local", input: "2026-09-01T18:45", want: time.Date(2026, 9, 1, 18, 45, 0, 0, time.UTC)},
		{name: "space separated", input: "2026-09-01 18:45", want: time.Date(2026, 9, 1, 18, 45, 0, 0, time.UTC)},
		{name: "rfc3339", input: "2026-09-01T18:45:00Z", want: time.Date(2026, 9, 1, 18, 45, 0, 0, time.UTC)},
		{name: "surrounding whitespace", input: "  today  ", want: time.Date(2026, 8, 14, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDayKeywordsLieAhead(t *testing.T) {
	now := time.Date(2026, 8, 14, 15, 30, 0, 0, time.UTC)
	parser := New(func() time.Time { return now })

	for _, input := range []string{"today", "tomorrow"} {
		got, err := parser.Parse(input)
		require.NoError(t, err)
		assert.True(t, got.After(now),
			"a %q deadline set mid-afternoon must still be ahead, got %v", input, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := New(nil)

	for _, input := range []string{"", "soonish", "in three hours", "in 3 fortnights", "in -2 hours", "14/08/2026"} {
		t.Run(input, func(t *testing.T) {
			_, err := parser.Parse(input)
			assert.Error(t, err)
		})
	}
}
