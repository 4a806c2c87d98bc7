package optimizer

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"mintid-backend/config"
	"mintid-backend/internal/model"
	"mintid-backend/internal/notification"
	"mintid-backend/internal/storage"
	"mintid-backend/internal/store"
)

// Service periodically classifies stored files into cleanup
// recommendations and raises quota alerts. It is the only background
// loop in the application.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool

	// lastStatus remembers the previously observed storage status per
	// org so an alert fires once per band transition, not every scan.
	lastStatus map[int64]storage.UsageStatus
}

// NewService creates the optimizer. workerPool may be nil when push
// notifications are not configured; alerts are then skipped.
func NewService(cfg *config.Config, s store.Store, workerPool *notification.WorkerPool) *Service {
	return &Service{
		cfg:        cfg,
		store:      s,
		workerPool: workerPool,
		lastStatus: make(map[int64]storage.UsageStatus),
	}
}

// Run starts the scan loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Optimizer.Enabled {
		log.Println("Storage optimizer is disabled. Not starting.")
		return
	}
	log.Println("Starting storage optimizer...")

	if s.workerPool != nil {
		s.workerPool.Start(ctx)
	}

	s.ScanOnce(ctx)

	timer := time.NewTimer(s.cfg.Optimizer.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Storage optimizer shutting down.")
			return
		case <-timer.C:
			s.ScanOnce(ctx)
			timer.Reset(s.cfg.Optimizer.Interval)
		}
	}
}

// ScanOnce performs a single classification pass over every
// organization's tracked files and refreshes quota alerting state.
func (s *Service) ScanOnce(ctx context.Context) {
	log.Println("Executing optimizer scan...")
	now := time.Now().UTC()

	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		log.Printf("Error listing organizations: %v", err)
		return
	}

	for _, org := range orgs {
		if err := s.scanOrg(ctx, org, now); err != nil {
			log.Printf("Error scanning org %d: %v", org.ID, err)
		}
	}
	log.Println("Optimizer scan finished.")
}

func (s *Service) scanOrg(ctx context.Context, org model.Organization, now time.Time) error {
	recs, err := s.store.ListUsageRecords(ctx, org.ID)
	if err != nil {
		return err
	}

	var changed []model.UsageRecord
	for i := range recs {
		recommendation, savings := s.Classify(recs[i], now)
		if recs[i].Recommendation != recommendation || recs[i].PotentialSavings != savings {
			recs[i].Recommendation = recommendation
			recs[i].PotentialSavings = savings
			changed = append(changed, recs[i])
		}
	}
	if len(changed) > 0 {
		log.Printf("Saving %d updated recommendations for org %d", len(changed), org.ID)
		if err := s.store.SaveRecommendations(ctx, changed); err != nil {
			return err
		}
	}

	return s.checkQuotaStatus(ctx, org.ID, now)
}

// checkQuotaStatus recomputes the storage snapshot and dispatches an
// alert when the status worsens into warning or critical.
func (s *Service) checkQuotaStatus(ctx context.Context, orgID int64, now time.Time) error {
	quota, err := s.store.GetQuota(ctx, orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.store.EnsureQuota(ctx, orgID, s.cfg.Storage.DefaultQuotaBytes, s.cfg.Storage.DefaultBandwidthDaily); err != nil {
			return err
		}
		quota, err = s.store.GetQuota(ctx, orgID)
	}
	if err != nil {
		return err
	}
	bandwidth, err := s.store.BandwidthUsedOn(ctx, orgID, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	snap := storage.Snapshot(quota, bandwidth)

	prev := s.lastStatus[orgID]
	s.lastStatus[orgID] = snap.StorageStatus

	alerting := snap.StorageStatus == storage.StatusWarning || snap.StorageStatus == storage.StatusCritical
	if alerting && snap.StorageStatus != prev && s.workerPool != nil {
		log.Printf("Dispatching storage alert for org %d: %s (%.1f%%)", orgID, snap.StorageStatus, snap.UsagePercentage)
		s.workerPool.Dispatch(notification.QuotaAlert{
			OrgID:   orgID,
			Status:  snap.StorageStatus,
			Percent: snap.UsagePercentage,
		})
	}
	return nil
}

// Classify decides the cleanup recommendation and the bytes it could
// save for a single tracked file. Rules are checked in order: temp
// files first, then staleness, then recompression.
func (s *Service) Classify(rec model.UsageRecord, now time.Time) (model.Recommendation, int64) {
	if isTempObject(rec) {
		return model.RecommendationTemp, rec.FileSize
	}

	lastTouched := rec.LastAccessedAt
	if lastTouched.IsZero() {
		lastTouched = rec.CreatedAt
	}
	age := now.Sub(lastTouched)

	staleAfter := time.Duration(s.cfg.Optimizer.StaleDays) * 24 * time.Hour
	archiveAfter := time.Duration(s.cfg.Optimizer.ArchiveDays) * 24 * time.Hour
	if age > staleAfter {
		return model.RecommendationDelete, rec.FileSize
	}
	if age > archiveAfter {
		return model.RecommendationArchive, rec.FileSize
	}

	if !rec.Compressed && storage.ShouldCompress(rec.MimeType, rec.FileSize) {
		// Recompression typically halves a raster image; report that
		// as the estimated saving.
		return model.RecommendationCompress, rec.FileSize / 2
	}

	return model.RecommendationKeep, 0
}

func isTempObject(rec model.UsageRecord) bool {
	return rec.Bucket == "temp" ||
		strings.HasPrefix(rec.FilePath, "temp/") ||
		strings.HasSuffix(rec.FilePath, ".tmp")
}
