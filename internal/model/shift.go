package model

import "time"

// ShiftType classifies a shift. Records created without an explicit
// type get ShiftTypeRegular rather than an empty string.
type ShiftType string

const (
	ShiftTypeDay      ShiftType = "Day"
	ShiftTypeNight    ShiftType = "Night"
	ShiftTypeOvertime ShiftType = "Overtime"
	ShiftTypeRegular  ShiftType = "Regular"
)

// NormalizeShiftType maps a raw type string onto a known ShiftType,
// defaulting to ShiftTypeRegular for empty or unrecognized values.
func NormalizeShiftType(raw string) ShiftType {
	switch ShiftType(raw) {
	case ShiftTypeDay, ShiftTypeNight, ShiftTypeOvertime, ShiftTypeRegular:
		return ShiftType(raw)
	}
	return ShiftTypeRegular
}

// ShiftRecord is a single scheduled shift. Date is a calendar date
// (YYYY-MM-DD); StartTime and EndTime are local times of day (HH:MM).
// An EndTime earlier than StartTime means the shift crosses midnight.
type ShiftRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID       int64     `gorm:"index;not null" json:"orgId"`
	EmployeeID  int64     `gorm:"index" json:"employeeId"`
	Date        string    `gorm:"size:10;not null;index" json:"date"`
	StartTime   string    `gorm:"size:5;not null" json:"startTime"`
	EndTime     string    `gorm:"size:5;not null" json:"endTime"`
	Type        ShiftType `gorm:"size:16;not null;default:Regular" json:"type"`
	Description string    `gorm:"size:512" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ShiftRecord) TableName() string {
	return "schedules"
}
