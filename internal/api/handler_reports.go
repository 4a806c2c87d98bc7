package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mintid-backend/internal/report"
	"mintid-backend/internal/store"
)

// summaryResponse wraps the computed summary with the resolved
// interval and a count of shifts whose times could not be parsed.
type summaryResponse struct {
	Period        report.Period      `json:"period"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	Summary       report.WorkSummary `json:"summary"`
	SkippedShifts int                `json:"skippedShifts,omitempty"`
}

// loadPeriodRecords pulls the org's shifts and tasks and filters them
// to the resolved period interval.
func loadPeriodRecords(c *gin.Context, s store.Store, orgID int64, period report.Period, now time.Time) (*summaryResponse, bool) {
	start, end := report.ResolvePeriod(period, now)

	shifts, err := s.ListShifts(c.Request.Context(), orgID, store.ShiftFilter{})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return nil, false
	}
	tasks, err := s.ListTasks(c.Request.Context(), orgID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return nil, false
	}

	filteredShifts, dropped := report.FilterShifts(shifts, start, end)
	filteredTasks := report.FilterTasks(tasks, start, end)
	summary, skipped := report.ComputeSummary(filteredShifts, filteredTasks)
	skipped += dropped

	resp := &summaryResponse{
		Period:        period,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		Summary:       summary,
		SkippedShifts: skipped,
	}
	return resp, true
}

// GetWorkSummary handles GET /api/orgs/:org_id/reports/summary.
func GetWorkSummary(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgIDParam(c)
		if !ok {
			return
		}
		period := report.NormalizePeriod(report.Period(c.Query("period")))

		resp, ok := loadPeriodRecords(c, s, orgID, period, time.Now())
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ExportReport handles GET /api/orgs/:org_id/reports/export. Format
// "json" produces the summary document, "csv" one row per shift.
func ExportReport(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgIDParam(c)
		if !ok {
			return
		}
		period := report.NormalizePeriod(report.Period(c.Query("period")))
		format := c.DefaultQuery("format", "json")
		now := time.Now()

		start, end := report.ResolvePeriod(period, now)
		shifts, err := s.ListShifts(c.Request.Context(), orgID, store.ShiftFilter{})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
			return
		}
		filteredShifts, _ := report.FilterShifts(shifts, start, end)

		var export *report.Export
		switch format {
		case "json":
			tasks, err := s.ListTasks(c.Request.Context(), orgID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
				return
			}
			filteredTasks := report.FilterTasks(tasks, start, end)
			export, err = report.ExportJSON(period, filteredShifts, filteredTasks, now)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		case "csv":
			export, err = report.ExportCSV(period, filteredShifts, now)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or csv"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		c.Data(http.StatusOK, export.ContentType, export.Data)
	}
}
