package model

import "time"

// Recommendation is the cleanup action suggested for a stored file.
type Recommendation string

const (
	RecommendationDelete   Recommendation = "delete_candidate"
	RecommendationArchive  Recommendation = "archive_candidate"
	RecommendationCompress Recommendation = "compression_candidate"
	RecommendationTemp     Recommendation = "temp_cleanup"
	RecommendationKeep     Recommendation = "keep"
)

// StorageQuota holds the per-organization storage and bandwidth caps.
// CurrentUsageBytes is maintained with conditional updates so the cap
// is enforced atomically in the database, not by the caller.
type StorageQuota struct {
	OrgID               int64     `gorm:"primaryKey" json:"orgId"`
	MaxBytes            int64     `gorm:"not null" json:"maxBytes"`
	CurrentUsageBytes   int64     `gorm:"not null;default:0" json:"currentUsageBytes"`
	BandwidthLimitDaily int64     `gorm:"not null" json:"bandwidthLimitDaily"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (StorageQuota) TableName() string {
	return "storage_quotas"
}

// UsageRecord tracks one stored object and the optimizer's current
// recommendation for it.
type UsageRecord struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	OrgID            int64          `gorm:"index;not null" json:"orgId"`
	Bucket           string         `gorm:"size:64;not null" json:"bucket"`
	FilePath         string         `gorm:"size:512;not null" json:"filePath"`
	FileSize         int64          `gorm:"not null" json:"fileSize"`
	MimeType         string         `gorm:"size:64" json:"mimeType"`
	Compressed       bool           `gorm:"not null;default:false" json:"compressed"`
	OriginalSize     int64          `json:"originalSize"`
	CompressionRatio float64        `json:"compressionRatio"`
	Recommendation   Recommendation `gorm:"size:32;index" json:"recommendation,omitempty"`
	PotentialSavings int64          `json:"potentialSavings"`
	LastAccessedAt   time.Time      `json:"lastAccessedAt"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (UsageRecord) TableName() string {
	return "storage_usage_tracking"
}

// BandwidthEvent records one transfer for daily bandwidth accounting.
// Recording is best-effort; a failed insert never unwinds the transfer
// it describes.
type BandwidthEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID     int64     `gorm:"index;not null" json:"orgId"`
	Operation string    `gorm:"size:16;not null" json:"operation"`
	Bytes     int64     `gorm:"not null" json:"bytes"`
	Actor     string    `gorm:"size:128" json:"actor"`
	Day       string    `gorm:"size:10;not null;index" json:"day"`
	CreatedAt time.Time `json:"createdAt"`
}

func (BandwidthEvent) TableName() string {
	return "bandwidth_usage"
}
