package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mintid-backend/internal/model"
	"mintid-backend/internal/store"
)

type shiftRequest struct {
	EmployeeID  int64  `json:"employeeId"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ListShifts handles GET /api/orgs/:org_id/shifts with optional
// from/to date bounds.
func (h *Handler) ListShifts(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	filter := store.ShiftFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	shifts, err := h.store.ListShifts(c.Request.Context(), orgID, filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// CreateShift handles POST /api/orgs/:org_id/shifts.
func (h *Handler) CreateShift(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift := model.ShiftRecord{
		OrgID:       orgID,
		EmployeeID:  req.EmployeeID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        model.NormalizeShiftType(req.Type),
		Description: req.Description,
	}
	if err := h.store.CreateShift(c.Request.Context(), &shift); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// UpdateShift handles PUT /api/orgs/:org_id/shifts/:id.
func (h *Handler) UpdateShift(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift := model.ShiftRecord{
		ID:          id,
		OrgID:       orgID,
		EmployeeID:  req.EmployeeID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        model.NormalizeShiftType(req.Type),
		Description: req.Description,
	}
	if err := h.store.UpdateShift(c.Request.Context(), &shift); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, shift)
}

// DeleteShift handles DELETE /api/orgs/:org_id/shifts/:id.
func (h *Handler) DeleteShift(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteShift(c.Request.Context(), orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
