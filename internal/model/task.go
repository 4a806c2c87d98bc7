package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority orders tasks for display.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskRecord is a work item tracked alongside shifts.
type TaskRecord struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID     int64        `gorm:"index;not null" json:"orgId"`
	Title     string       `gorm:"size:256;not null" json:"title"`
	Status    TaskStatus   `gorm:"size:16;not null;default:pending" json:"status"`
	Priority  TaskPriority `gorm:"size:8;not null;default:medium" json:"priority"`
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (TaskRecord) TableName() string {
	return "tasks"
}
