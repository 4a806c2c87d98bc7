package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mintid-backend/internal/model"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		pct      float64
		expected UsageStatus
	}{
		{0, StatusGood},
		{59.9, StatusGood},
		{60, StatusModerate},
		{79.9, StatusModerate},
		{80, StatusWarning},
		{95, StatusWarning},
		{95.1, StatusCritical},
		{120, StatusCritical},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, StatusFor(tc.pct), "pct=%v", tc.pct)
	}
}

// Higher usage must never yield a better status.
func TestStatusForMonotonic(t *testing.T) {
	rank := map[UsageStatus]int{
		StatusGood:     0,
		StatusModerate: 1,
		StatusWarning:  2,
		StatusCritical: 3,
	}
	prev := StatusFor(0)
	for pct := 0.5; pct <= 110; pct += 0.5 {
		cur := StatusFor(pct)
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "status regressed at %v%%", pct)
		prev = cur
	}
}

func TestSnapshot(t *testing.T) {
	quota := model.StorageQuota{
		OrgID:               1,
		MaxBytes:            1000,
		CurrentUsageBytes:   850,
		BandwidthLimitDaily: 500,
	}

	snap := Snapshot(quota, 100)

	assert.Equal(t, int64(150), snap.RemainingBytes)
	assert.InDelta(t, 85.0, snap.UsagePercentage, 1e-9)
	assert.Equal(t, StatusWarning, snap.StorageStatus)
	assert.InDelta(t, 20.0, snap.BandwidthUsagePercentage, 1e-9)
	assert.Equal(t, StatusGood, snap.BandwidthStatus)
}

func TestSnapshotZeroLimit(t *testing.T) {
	snap := Snapshot(model.StorageQuota{OrgID: 1}, 0)
	assert.Equal(t, StatusCritical, snap.StorageStatus)
	assert.Zero(t, snap.RemainingBytes)
}

func TestSnapshotOverUsage(t *testing.T) {
	quota := model.StorageQuota{MaxBytes: 100, CurrentUsageBytes: 120, BandwidthLimitDaily: 100}
	snap := Snapshot(quota, 0)
	assert.Equal(t, StatusCritical, snap.StorageStatus)
	assert.Zero(t, snap.RemainingBytes, "remaining never goes negative")
}
