package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"mintid-backend/internal/model"
)

// UploadInput carries one file into the optimization pipeline.
type UploadInput struct {
	OrgID    int64
	Bucket   string
	Filename string
	MimeType string
	Actor    string
	Data     []byte
}

// UploadResult reports what was persisted.
type UploadResult struct {
	RecordID         string  `json:"recordId"`
	Bucket           string  `json:"bucket"`
	Path             string  `json:"path"`
	OriginalSize     int64   `json:"originalSize"`
	StoredSize       int64   `json:"storedSize"`
	Compressed       bool    `json:"compressed"`
	CompressionRatio float64 `json:"compressionRatio"`
}

// UploadWithOptimization runs the full upload pipeline: quota
// admission, optional image compression, persistence, and bandwidth
// accounting. The admission gate runs and resolves before storage is
// touched; a compression failure falls back to the original bytes; a
// bandwidth-accounting failure is logged but never unwinds the upload.
func (e *Engine) UploadWithOptimization(ctx context.Context, in UploadInput) (*UploadResult, error) {
	originalSize := int64(len(in.Data))

	adm, err := e.CheckQuota(ctx, in.OrgID, originalSize)
	if err != nil {
		return nil, err
	}
	if !adm.Allowed {
		return nil, &AdmissionError{Reason: adm.Reason}
	}

	data := in.Data
	compressed := false
	ratio := 1.0
	if ShouldCompress(in.MimeType, originalSize) {
		res, err := e.compressor.Compress(in.Data, e.quality)
		if err != nil {
			log.Printf("Warning: compression failed for %q (org %d): %v. Uploading original.", in.Filename, in.OrgID, err)
		} else if acceptCompression(res) {
			data = res.Data
			compressed = true
			ratio = res.Ratio
		}
	}
	storedSize := int64(len(data))

	// The conditional update is the authoritative cap check; the
	// earlier read only produced a friendly refusal message.
	ok, err := e.store.ReserveStorage(ctx, in.OrgID, storedSize)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &AdmissionError{Reason: "storage quota exceeded"}
	}

	objectPath := path.Join(fmt.Sprintf("org-%d", in.OrgID), uuid.NewString()+path.Ext(in.Filename))
	if err := e.objects.Put(ctx, in.Bucket, objectPath, data); err != nil {
		if relErr := e.store.ReleaseStorage(ctx, in.OrgID, storedSize); relErr != nil {
			log.Printf("Error releasing reservation after failed upload for org %d: %v", in.OrgID, relErr)
		}
		return nil, fmt.Errorf("failed to store object %s/%s: %w", in.Bucket, objectPath, err)
	}

	rec := &model.UsageRecord{
		ID:               uuid.NewString(),
		OrgID:            in.OrgID,
		Bucket:           in.Bucket,
		FilePath:         objectPath,
		FileSize:         storedSize,
		MimeType:         in.MimeType,
		Compressed:       compressed,
		OriginalSize:     originalSize,
		CompressionRatio: ratio,
		LastAccessedAt:   time.Now().UTC(),
	}
	if err := e.store.CreateUsageRecord(ctx, rec); err != nil {
		if remErr := e.objects.Remove(ctx, in.Bucket, []string{objectPath}); remErr != nil {
			log.Printf("Error removing orphaned object %s/%s: %v", in.Bucket, objectPath, remErr)
		}
		if relErr := e.store.ReleaseStorage(ctx, in.OrgID, storedSize); relErr != nil {
			log.Printf("Error releasing reservation after failed tracking insert for org %d: %v", in.OrgID, relErr)
		}
		return nil, fmt.Errorf("failed to track upload for org %d: %w", in.OrgID, err)
	}

	event := &model.BandwidthEvent{
		OrgID:     in.OrgID,
		Operation: "upload",
		Bytes:     storedSize,
		Actor:     in.Actor,
	}
	if err := e.store.RecordBandwidth(ctx, event); err != nil {
		log.Printf("Warning: failed to record bandwidth usage for org %d: %v", in.OrgID, err)
	}

	return &UploadResult{
		RecordID:         rec.ID,
		Bucket:           in.Bucket,
		Path:             objectPath,
		OriginalSize:     originalSize,
		StoredSize:       storedSize,
		Compressed:       compressed,
		CompressionRatio: ratio,
	}, nil
}

// CleanupOutcome is the aggregate result of a best-effort bulk
// cleanup.
type CleanupOutcome struct {
	Succeeded  int      `json:"succeeded"`
	Failed     int      `json:"failed"`
	BytesFreed int64    `json:"bytesFreed"`
	Errors     []string `json:"errors,omitempty"`
}

// ImplementRecommendations deletes the storage objects behind the
// given tracking ids and removes their rows. Ids resolving to another
// organization's records are refused and counted as failed. A failure
// on one item does not stop the batch; per-item errors are collected
// into the outcome.
func (e *Engine) ImplementRecommendations(ctx context.Context, orgID int64, ids []string) (CleanupOutcome, error) {
	recs, err := e.store.GetUsageRecords(ctx, ids)
	if err != nil {
		return CleanupOutcome{}, fmt.Errorf("failed to resolve cleanup records: %w", err)
	}

	var outcome CleanupOutcome
	for _, rec := range recs {
		if rec.OrgID != orgID {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: record does not belong to organization %d", rec.ID, orgID))
			continue
		}
		if err := e.objects.Remove(ctx, rec.Bucket, []string{rec.FilePath}); err != nil {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", rec.ID, err))
			continue
		}
		if err := e.store.DeleteUsageRecord(ctx, rec.ID); err != nil {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", rec.ID, err))
			continue
		}
		if err := e.store.ReleaseStorage(ctx, rec.OrgID, rec.FileSize); err != nil {
			log.Printf("Warning: failed to release %d bytes for org %d: %v", rec.FileSize, rec.OrgID, err)
		}
		outcome.Succeeded++
		outcome.BytesFreed += rec.FileSize
	}
	return outcome, nil
}
