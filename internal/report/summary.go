package report

import (
	"fmt"
	"time"

	"mintid-backend/internal/model"
)

// overtimeThresholdHours is the per-shift duration above which hours
// count as overtime.
const overtimeThresholdHours = 8.0

const timeLayout = "15:04"

// WorkSummary is a derived roll-up over a filtered set of shifts and
// tasks. It is recomputed in full on every request and never persisted.
type WorkSummary struct {
	TotalHours           float64 `json:"totalHours"`
	TotalShifts          int     `json:"totalShifts"`
	AverageHoursPerShift float64 `json:"averageHoursPerShift"`
	OvertimeHours        float64 `json:"overtimeHours"`
	CompletedTasks       int     `json:"completedTasks"`
	PendingTasks         int     `json:"pendingTasks"`
}

// FilterShifts keeps shifts whose date falls within [start, end]
// inclusive. Shifts with unparseable dates cannot be placed in any
// period, so they are dropped; the count of dropped records is
// returned so callers can report them alongside the summary's own
// skipped counter.
func FilterShifts(shifts []model.ShiftRecord, start, end time.Time) ([]model.ShiftRecord, int) {
	var out []model.ShiftRecord
	dropped := 0
	for _, s := range shifts {
		d, err := time.ParseInLocation(dateLayout, s.Date, start.Location())
		if err != nil {
			dropped++
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out, dropped
}

// FilterTasks keeps tasks created within [start, end] inclusive, where
// end is treated as a whole calendar day.
func FilterTasks(tasks []model.TaskRecord, start, end time.Time) []model.TaskRecord {
	endExclusive := end.AddDate(0, 0, 1)
	var out []model.TaskRecord
	for _, t := range tasks {
		if t.CreatedAt.Before(start) || !t.CreatedAt.Before(endExclusive) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ComputeSummary derives a WorkSummary from already-filtered shifts and
// tasks. Shifts with malformed date or time strings contribute zero
// hours instead of failing the whole summary; the number of such
// records is returned so callers can report them.
func ComputeSummary(shifts []model.ShiftRecord, tasks []model.TaskRecord) (WorkSummary, int) {
	var summary WorkSummary
	skipped := 0

	for _, s := range shifts {
		hours, err := ShiftHours(s)
		if err != nil {
			skipped++
			hours = 0
		}
		summary.TotalHours += hours
		if hours > overtimeThresholdHours {
			summary.OvertimeHours += hours - overtimeThresholdHours
		}
	}
	summary.TotalShifts = len(shifts)
	if summary.TotalShifts > 0 {
		summary.AverageHoursPerShift = summary.TotalHours / float64(summary.TotalShifts)
	}

	for _, t := range tasks {
		if t.Status == model.TaskStatusCompleted {
			summary.CompletedTasks++
		} else {
			summary.PendingTasks++
		}
	}

	return summary, skipped
}

// ShiftHours computes the duration of one shift in hours. An end time
// earlier than the start time means the shift crosses midnight, so a
// day is added to the end.
func ShiftHours(s model.ShiftRecord) (float64, error) {
	day, err := time.Parse(dateLayout, s.Date)
	if err != nil {
		return 0, fmt.Errorf("bad shift date %q: %w", s.Date, err)
	}
	startClock, err := time.Parse(timeLayout, s.StartTime)
	if err != nil {
		return 0, fmt.Errorf("bad shift start time %q: %w", s.StartTime, err)
	}
	endClock, err := time.Parse(timeLayout, s.EndTime)
	if err != nil {
		return 0, fmt.Errorf("bad shift end time %q: %w", s.EndTime, err)
	}

	start := day.Add(time.Duration(startClock.Hour())*time.Hour + time.Duration(startClock.Minute())*time.Minute)
	end := day.Add(time.Duration(endClock.Hour())*time.Hour + time.Duration(endClock.Minute())*time.Minute)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return end.Sub(start).Hours(), nil
}
