package report

import "time"

// Period names a reporting date range relative to the current date.
type Period string

const (
	PeriodCurrentMonth Period = "currentMonth"
	PeriodLastMonth    Period = "lastMonth"
	PeriodLast3Months  Period = "last3Months"
	PeriodCurrentYear  Period = "currentYear"
)

const dateLayout = "2006-01-02"

// NormalizePeriod maps empty or unknown period values onto the current
// month, the same fallback ResolvePeriod applies. Responses and export
// filenames carry the normalized name, never the raw input.
func NormalizePeriod(period Period) Period {
	switch period {
	case PeriodCurrentMonth, PeriodLastMonth, PeriodLast3Months, PeriodCurrentYear:
		return period
	}
	return PeriodCurrentMonth
}

// ResolvePeriod maps a named period onto an inclusive calendar date
// interval around now. Unknown period values fall back to the current
// month rather than erroring.
func ResolvePeriod(period Period, now time.Time) (start, end time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()

	switch period {
	case PeriodLastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	case PeriodLast3Months:
		start = time.Date(y, m-2, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	case PeriodCurrentYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	}
	return start, end
}
