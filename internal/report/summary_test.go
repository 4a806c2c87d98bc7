package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintid-backend/internal/model"
)

func shift(date, start, end string) model.ShiftRecord {
	return model.ShiftRecord{Date: date, StartTime: start, EndTime: end, Type: model.ShiftTypeRegular}
}

func TestComputeSummary(t *testing.T) {
	shifts := []model.ShiftRecord{
		shift("2025-06-01", "08:00", "16:00"), // 8h, no overtime
		shift("2025-06-02", "08:00", "20:00"), // 12h, 4h overtime
	}

	summary, skipped := ComputeSummary(shifts, nil)

	assert.Equal(t, 0, skipped)
	assert.InDelta(t, 20.0, summary.TotalHours, 1e-9)
	assert.Equal(t, 2, summary.TotalShifts)
	assert.InDelta(t, 10.0, summary.AverageHoursPerShift, 1e-9)
	assert.InDelta(t, 4.0, summary.OvertimeHours, 1e-9)
}

func TestComputeSummaryEmpty(t *testing.T) {
	summary, skipped := ComputeSummary(nil, nil)
	assert.Equal(t, 0, skipped)
	assert.Zero(t, summary.TotalShifts)
	assert.Zero(t, summary.AverageHoursPerShift, "average must be 0 with no shifts, not NaN")
	assert.Zero(t, summary.TotalHours)
	assert.Zero(t, summary.OvertimeHours)
}

func TestComputeSummaryAverageInvariant(t *testing.T) {
	shifts := []model.ShiftRecord{
		shift("2025-06-01", "09:00", "17:30"),
		shift("2025-06-02", "10:15", "18:00"),
		shift("2025-06-03", "22:00", "06:00"),
	}
	summary, _ := ComputeSummary(shifts, nil)
	require.Positive(t, summary.TotalShifts)
	assert.InDelta(t, summary.TotalHours, summary.AverageHoursPerShift*float64(summary.TotalShifts), 1e-9)
	assert.GreaterOrEqual(t, summary.OvertimeHours, 0.0)
}

func TestComputeSummaryOvernightShift(t *testing.T) {
	// 22:00 to 06:00 crosses midnight and must count as 8 hours.
	summary, skipped := ComputeSummary([]model.ShiftRecord{shift("2025-06-01", "22:00", "06:00")}, nil)
	assert.Equal(t, 0, skipped)
	assert.InDelta(t, 8.0, summary.TotalHours, 1e-9)
	assert.Zero(t, summary.OvertimeHours)
}

func TestComputeSummaryMalformedTimes(t *testing.T) {
	shifts := []model.ShiftRecord{
		shift("2025-06-01", "08:00", "16:00"),
		shift("2025-06-02", "not-a-time", "16:00"),
		shift("garbage", "08:00", "16:00"),
	}
	summary, skipped := ComputeSummary(shifts, nil)

	// Malformed records contribute zero hours but still count as
	// shifts; the summary never fails outright.
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 3, summary.TotalShifts)
	assert.InDelta(t, 8.0, summary.TotalHours, 1e-9)
}

func TestComputeSummaryTaskCounts(t *testing.T) {
	tasks := []model.TaskRecord{
		{Title: "a", Status: model.TaskStatusCompleted},
		{Title: "b", Status: model.TaskStatusPending},
		{Title: "c", Status: model.TaskStatusInProgress},
	}
	summary, _ := ComputeSummary(nil, tasks)
	assert.Equal(t, 1, summary.CompletedTasks)
	assert.Equal(t, 2, summary.PendingTasks, "every non-completed status counts as pending")
}

func TestShiftHours(t *testing.T) {
	testCases := []struct {
		name     string
		shift    model.ShiftRecord
		expected float64
		wantErr  bool
	}{
		{"regular day", shift("2025-06-01", "09:00", "17:00"), 8, false},
		{"half hour granularity", shift("2025-06-01", "09:30", "13:15"), 3.75, false},
		{"overnight", shift("2025-06-01", "23:00", "07:00"), 8, false},
		{"zero length", shift("2025-06-01", "09:00", "09:00"), 0, false},
		{"bad date", shift("06/01/2025", "09:00", "17:00"), 0, true},
		{"bad start", shift("2025-06-01", "9am", "17:00"), 0, true},
		{"bad end", shift("2025-06-01", "09:00", "late"), 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hours, err := ShiftHours(tc.shift)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, hours, 1e-9)
		})
	}
}

func TestFilterShifts(t *testing.T) {
	shifts := []model.ShiftRecord{
		shift("2025-05-31", "09:00", "17:00"),
		shift("2025-06-01", "09:00", "17:00"),
		shift("2025-06-30", "09:00", "17:00"),
		shift("2025-07-01", "09:00", "17:00"),
		shift("bogus", "09:00", "17:00"),
	}
	start := date(2025, time.June, 1)
	end := date(2025, time.June, 30)

	filtered, dropped := FilterShifts(shifts, start, end)

	// Interval bounds are inclusive; unparseable dates are dropped but
	// counted so they surface in the summary's skipped total.
	assert.Len(t, filtered, 2)
	assert.Equal(t, "2025-06-01", filtered[0].Date)
	assert.Equal(t, "2025-06-30", filtered[1].Date)
	assert.Equal(t, 1, dropped)
}

func TestFilterTasks(t *testing.T) {
	start := date(2025, time.June, 1)
	end := date(2025, time.June, 30)
	tasks := []model.TaskRecord{
		{Title: "before", CreatedAt: date(2025, time.May, 31)},
		{Title: "first day", CreatedAt: date(2025, time.June, 1)},
		{Title: "late on last day", CreatedAt: time.Date(2025, time.June, 30, 23, 59, 0, 0, time.UTC)},
		{Title: "after", CreatedAt: date(2025, time.July, 1)},
	}

	filtered := FilterTasks(tasks, start, end)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "first day", filtered[0].Title)
	assert.Equal(t, "late on last day", filtered[1].Title)
}
