package storage

import "mintid-backend/internal/model"

// UsageStatus bands a usage percentage for display and alerting.
type UsageStatus string

const (
	StatusGood     UsageStatus = "good"
	StatusModerate UsageStatus = "moderate"
	StatusWarning  UsageStatus = "warning"
	StatusCritical UsageStatus = "critical"
)

// StatusFor classifies a usage percentage. Bands: <60 good, 60-80
// moderate, 80-95 warning, above 95 critical. The mapping is monotonic
// in the percentage.
func StatusFor(pct float64) UsageStatus {
	switch {
	case pct < 60:
		return StatusGood
	case pct < 80:
		return StatusModerate
	case pct <= 95:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// QuotaSnapshot is the derived per-organization storage view. It is
// recomputed on demand from the quota row and the day's bandwidth
// events.
type QuotaSnapshot struct {
	MaxBytes                 int64       `json:"maxBytes"`
	CurrentUsageBytes        int64       `json:"currentUsageBytes"`
	RemainingBytes           int64       `json:"remainingBytes"`
	UsagePercentage          float64     `json:"usagePercentage"`
	StorageStatus            UsageStatus `json:"storageStatus"`
	BandwidthLimitDaily      int64       `json:"bandwidthLimitDaily"`
	BandwidthUsedToday       int64       `json:"bandwidthUsedToday"`
	BandwidthUsagePercentage float64     `json:"bandwidthUsagePercentage"`
	BandwidthStatus          UsageStatus `json:"bandwidthStatus"`
}

// Snapshot derives the usage view from a quota row. A zero limit is
// reported as fully used so misconfigured rows surface as critical
// instead of dividing by zero.
func Snapshot(quota model.StorageQuota, bandwidthToday int64) QuotaSnapshot {
	snap := QuotaSnapshot{
		MaxBytes:            quota.MaxBytes,
		CurrentUsageBytes:   quota.CurrentUsageBytes,
		BandwidthLimitDaily: quota.BandwidthLimitDaily,
		BandwidthUsedToday:  bandwidthToday,
	}

	snap.UsagePercentage = percentage(quota.CurrentUsageBytes, quota.MaxBytes)
	snap.BandwidthUsagePercentage = percentage(bandwidthToday, quota.BandwidthLimitDaily)
	if remaining := quota.MaxBytes - quota.CurrentUsageBytes; remaining > 0 {
		snap.RemainingBytes = remaining
	}
	snap.StorageStatus = StatusFor(snap.UsagePercentage)
	snap.BandwidthStatus = StatusFor(snap.BandwidthUsagePercentage)
	return snap
}

func percentage(used, limit int64) float64 {
	if limit <= 0 {
		return 100
	}
	return float64(used) / float64(limit) * 100
}
