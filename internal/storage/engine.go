package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mintid-backend/config"
	"mintid-backend/internal/store"
)

// Engine ties quota admission, upload optimization, and cleanup
// together over the store and an object store.
type Engine struct {
	store      store.Store
	objects    ObjectStore
	compressor Compressor
	quality    int

	defaultQuota     int64
	defaultBandwidth int64
}

// NewEngine creates a storage engine. The default compressor can be
// swapped via SetCompressor for testing.
func NewEngine(s store.Store, objects ObjectStore, cfg config.StorageConfig) *Engine {
	return &Engine{
		store:            s,
		objects:          objects,
		compressor:       NewImageCompressor(),
		quality:          cfg.CompressionQuality,
		defaultQuota:     cfg.DefaultQuotaBytes,
		defaultBandwidth: cfg.DefaultBandwidthDaily,
	}
}

// SetCompressor replaces the image compressor.
func (e *Engine) SetCompressor(c Compressor) {
	e.compressor = c
}

// AdmissionError reports an upload refused before any side effect, for
// quota or suspension reasons. It is user-visible.
type AdmissionError struct {
	Reason string
}

func (e *AdmissionError) Error() string {
	return e.Reason
}

// Admission is the result of a quota check.
type Admission struct {
	Allowed  bool          `json:"allowed"`
	Reason   string        `json:"reason,omitempty"`
	Snapshot QuotaSnapshot `json:"snapshot"`
}

// CheckQuota decides whether an incoming file of the given size may be
// uploaded for the organization. An upload that lands exactly on the
// cap is allowed; one byte over is not. Suspended organizations are
// always refused.
func (e *Engine) CheckQuota(ctx context.Context, orgID, incomingSize int64) (Admission, error) {
	org, err := e.store.GetOrganization(ctx, orgID)
	if err != nil {
		return Admission{}, fmt.Errorf("failed to load organization %d: %w", orgID, err)
	}

	snap, err := e.QuotaSnapshot(ctx, orgID)
	if err != nil {
		return Admission{}, err
	}

	adm := Admission{Snapshot: snap}
	switch {
	case org.Suspended:
		adm.Reason = "organization is suspended"
	case snap.CurrentUsageBytes+incomingSize > snap.MaxBytes:
		adm.Reason = "storage quota exceeded"
	default:
		adm.Allowed = true
	}
	return adm, nil
}

// QuotaSnapshot recomputes the derived usage view for an organization.
// An organization without a quota row gets one provisioned with the
// configured defaults on first read.
func (e *Engine) QuotaSnapshot(ctx context.Context, orgID int64) (QuotaSnapshot, error) {
	quota, err := e.store.GetQuota(ctx, orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := e.store.EnsureQuota(ctx, orgID, e.defaultQuota, e.defaultBandwidth); err != nil {
			return QuotaSnapshot{}, fmt.Errorf("failed to provision quota for org %d: %w", orgID, err)
		}
		quota, err = e.store.GetQuota(ctx, orgID)
	}
	if err != nil {
		return QuotaSnapshot{}, fmt.Errorf("failed to load quota for org %d: %w", orgID, err)
	}
	today := time.Now().UTC().Format("2006-01-02")
	bandwidth, err := e.store.BandwidthUsedOn(ctx, orgID, today)
	if err != nil {
		return QuotaSnapshot{}, fmt.Errorf("failed to load bandwidth usage for org %d: %w", orgID, err)
	}
	return Snapshot(quota, bandwidth), nil
}
