package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"mintid-backend/internal/model"
)

// Export is a generated report artifact ready to hand to an HTTP
// response writer.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type jsonReport struct {
	Period      Period      `json:"period"`
	Summary     WorkSummary `json:"summary"`
	ShiftCount  int         `json:"shiftCount"`
	TaskCount   int         `json:"taskCount"`
	GeneratedAt string      `json:"generatedAt"`
}

// ExportJSON serializes the summary for a period as a pretty-printed
// JSON document.
func ExportJSON(period Period, shifts []model.ShiftRecord, tasks []model.TaskRecord, now time.Time) (*Export, error) {
	summary, _ := ComputeSummary(shifts, tasks)

	doc := jsonReport{
		Period:      period,
		Summary:     summary,
		ShiftCount:  len(shifts),
		TaskCount:   len(tasks),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report json: %w", err)
	}

	return &Export{
		Filename:    fmt.Sprintf("work-report-%s-%s.json", period, now.Format(dateLayout)),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// ExportCSV emits one row per shift with hours computed the same way
// the summary computes them. Shifts whose hours cannot be computed are
// written with 0.00 hours rather than dropped.
func ExportCSV(period Period, shifts []model.ShiftRecord, now time.Time) (*Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Start Time", "End Time", "Hours", "Type"}); err != nil {
		return nil, err
	}
	for _, s := range shifts {
		hours, _ := ShiftHours(s)
		row := []string{
			s.Date,
			s.StartTime,
			s.EndTime,
			fmt.Sprintf("%.2f", hours),
			string(model.NormalizeShiftType(string(s.Type))),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &Export{
		Filename:    fmt.Sprintf("shifts-%s-%s.csv", period, now.Format(dateLayout)),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
