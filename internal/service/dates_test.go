package service

import (
	"testing"
	"time"

	"driveline/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseDateRange(t *testing.T) {
	start, end, days, err := ParseDateRange("2026-05-10", "2026-05-12")
	require.NoError(t, err)
	assert.Equal(t, day("2026-05-10"), start)
	assert.Equal(t, day("2026-05-12"), end)
	assert.Equal(t, 3, days)
}

func TestParseDateRange_SingleDay(t *testing.T) {
	_, _, days, err := ParseDateRange("2026-05-10", "2026-05-10")
	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestParseDateRange_Errors(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		field      string
	}{
		{"missing start", "", "2026-05-12", "start_date"},
		{"missing end", "2026-05-10", "", "end_date"},
		{"malformed start", "10/05/2026", "2026-05-12", "start_date"},
		{"malformed end", "2026-05-10", "May 12", "end_date"},
		{"end before start", "2026-05-12", "2026-05-10", "end_date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := ParseDateRange(tc.start, tc.end)
			e, ok := apperrors.AsError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, e.Kind)
			assert.Equal(t, tc.field, e.Field)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"disjoint before", "2026-05-01", "2026-05-05", "2026-05-07", "2026-05-09", false},
		{"disjoint after", "2026-05-07", "2026-05-09", "2026-05-01", "2026-05-05", false},
		{"same-day turnover", "2026-05-10", "2026-05-12", "2026-05-12", "2026-05-14", true},
		{"contained", "2026-05-01", "2026-05-31", "2026-05-10", "2026-05-12", true},
		{"partial overlap", "2026-05-10", "2026-05-15", "2026-05-14", "2026-05-20", true},
		{"identical", "2026-05-10", "2026-05-12", "2026-05-10", "2026-05-12", true},
		{"adjacent no gap", "2026-05-10", "2026-05-11", "2026-05-12", "2026-05-13", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDaysLate(t *testing.T) {
	assert.Equal(t, 3, DaysLate(day("2026-05-12"), day("2026-05-15")))
	assert.Equal(t, 0, DaysLate(day("2026-05-12"), day("2026-05-12")))
	assert.Equal(t, 0, DaysLate(day("2026-05-12"), day("2026-05-10")))
	assert.Equal(t, 1, DaysLate(day("2026-05-12"), day("2026-05-13")))
}
