package model

import "time"

// Organization represents a tenant. All scheduling and storage data is
// scoped to an organization.
type Organization struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Suspended bool      `gorm:"not null;default:false" json:"suspended"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Quota *StorageQuota `gorm:"foreignKey:OrgID" json:"-"`
}
