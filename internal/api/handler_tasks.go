package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mintid-backend/internal/model"
)

type taskRequest struct {
	Title    string `json:"title" binding:"required"`
	Status   string `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// ListTasks handles GET /api/orgs/:org_id/tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	tasks, err := h.store.ListTasks(c.Request.Context(), orgID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /api/orgs/:org_id/tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := model.TaskRecord{
		OrgID:    orgID,
		Title:    req.Title,
		Status:   model.TaskStatus(req.Status),
		Priority: model.TaskPriority(req.Priority),
	}
	if err := h.store.CreateTask(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/orgs/:org_id/tasks/:id.
func (h *Handler) UpdateTask(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := model.TaskRecord{
		ID:       id,
		OrgID:    orgID,
		Title:    req.Title,
		Status:   model.TaskStatus(req.Status),
		Priority: model.TaskPriority(req.Priority),
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	if err := h.store.UpdateTask(c.Request.Context(), &task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/orgs/:org_id/tasks/:id.
func (h *Handler) DeleteTask(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTask(c.Request.Context(), orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
