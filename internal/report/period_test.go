package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	now := date(2025, time.June, 15)

	testCases := []struct {
		name          string
		period        Period
		now           time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "current month",
			period:        PeriodCurrentMonth,
			now:           now,
			expectedStart: date(2025, time.June, 1),
			expectedEnd:   date(2025, time.June, 30),
		},
		{
			name:          "last month",
			period:        PeriodLastMonth,
			now:           now,
			expectedStart: date(2025, time.May, 1),
			expectedEnd:   date(2025, time.May, 31),
		},
		{
			name:          "last month across year boundary",
			period:        PeriodLastMonth,
			now:           date(2025, time.January, 15),
			expectedStart: date(2024, time.December, 1),
			expectedEnd:   date(2024, time.December, 31),
		},
		{
			name:          "last three months",
			period:        PeriodLast3Months,
			now:           now,
			expectedStart: date(2025, time.April, 1),
			expectedEnd:   date(2025, time.June, 30),
		},
		{
			name:          "last three months across year boundary",
			period:        PeriodLast3Months,
			now:           date(2025, time.February, 10),
			expectedStart: date(2024, time.December, 1),
			expectedEnd:   date(2025, time.February, 28),
		},
		{
			name:          "current year",
			period:        PeriodCurrentYear,
			now:           now,
			expectedStart: date(2025, time.January, 1),
			expectedEnd:   date(2025, time.December, 31),
		},
		{
			name:          "unknown period falls back to current month",
			period:        Period("lastDecade"),
			now:           now,
			expectedStart: date(2025, time.June, 1),
			expectedEnd:   date(2025, time.June, 30),
		},
		{
			name:          "february in a leap year",
			period:        PeriodCurrentMonth,
			now:           date(2024, time.February, 10),
			expectedStart: date(2024, time.February, 1),
			expectedEnd:   date(2024, time.February, 29),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := ResolvePeriod(tc.period, tc.now)
			assert.Equal(t, tc.expectedStart, start)
			assert.Equal(t, tc.expectedEnd, end)
		})
	}
}

func TestNormalizePeriod(t *testing.T) {
	testCases := []struct {
		name     string
		period   Period
		expected Period
	}{
		{"known period passes through", PeriodLastMonth, PeriodLastMonth},
		{"current year passes through", PeriodCurrentYear, PeriodCurrentYear},
		{"empty period becomes current month", Period(""), PeriodCurrentMonth},
		{"unknown period becomes current month", Period("lastDecade"), PeriodCurrentMonth},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePeriod(tc.period))
		})
	}
}

func TestResolvePeriodIdempotent(t *testing.T) {
	now := date(2025, time.March, 3)
	s1, e1 := ResolvePeriod(PeriodCurrentMonth, now)
	s2, e2 := ResolvePeriod(PeriodCurrentMonth, now)
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1, e2)
}
