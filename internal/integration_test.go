package internal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mintid-backend/config"
	"mintid-backend/internal/db"
	"mintid-backend/internal/model"
	"mintid-backend/internal/notification"
	"mintid-backend/internal/optimizer"
	"mintid-backend/internal/storage"
	"mintid-backend/internal/store"
)

// TestStorageLifecycle walks an organization through the whole storage
// story: uploads that reserve quota, an upload refused at the cap, an
// optimizer scan that flags stale files and raises an alert, and a
// cleanup that returns the freed bytes to the quota.
func TestStorageLifecycle(t *testing.T) {
	// --- Test Setup ---

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:storage_lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to the in-memory database: %v", err)
	}
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	// Run database migrations.
	require.NoError(t, db.Migrate(testDB))

	// 2. Create a mock configuration.
	mockConfig := &config.Config{
		Storage: config.StorageConfig{
			CompressionQuality: 80,
		},
		Optimizer: config.OptimizerConfig{
			Enabled:     true,
			StaleDays:   180,
			ArchiveDays: 90,
		},
	}
	mockConfig.WorkerPool.Size = 4

	// 3. Instantiate the store, object store, engine, and optimizer.
	appStore := store.NewGormStore(testDB)
	objects, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	engine := storage.NewEngine(appStore, objects, mockConfig.Storage)

	// The pool is deliberately never started so dispatched alerts stay
	// in its channel for inspection.
	pool := notification.NewWorkerPool(mockConfig.WorkerPool.Size, testDB, nil)
	optimizerService := optimizer.NewService(mockConfig, appStore, pool)

	ctx := context.Background()

	// 4. Pre-populate the database with an organization and its quota.
	require.NoError(t, testDB.Create(&model.Organization{ID: 1, Name: "Acme"}).Error)
	require.NoError(t, appStore.EnsureQuota(ctx, 1, 1000, 1<<20))

	var firstRecordID string

	// --- Cycle 1: Uploads reserve quota and account bandwidth ---
	t.Run("Cycle 1: Uploads Reserve Quota", func(t *testing.T) {
		first, err := engine.UploadWithOptimization(ctx, storage.UploadInput{
			OrgID: 1, Bucket: "uploads", Filename: "report.txt", MimeType: "text/plain",
			Actor: "worker@acme", Data: bytes.Repeat([]byte{0x01}, 400),
		})
		require.NoError(t, err)
		firstRecordID = first.RecordID

		_, err = engine.UploadWithOptimization(ctx, storage.UploadInput{
			OrgID: 1, Bucket: "uploads", Filename: "backup.bin", MimeType: "application/octet-stream",
			Actor: "worker@acme", Data: bytes.Repeat([]byte{0x02}, 500),
		})
		require.NoError(t, err)

		quota, err := appStore.GetQuota(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), quota.CurrentUsageBytes, "both uploads should be reserved")

		today := time.Now().UTC().Format("2006-01-02")
		bandwidth, err := appStore.BandwidthUsedOn(ctx, 1, today)
		require.NoError(t, err)
		assert.Equal(t, int64(900), bandwidth, "both uploads should be accounted")
	})

	// --- Cycle 2: The quota cap refuses further uploads ---
	t.Run("Cycle 2: Quota Exhaustion", func(t *testing.T) {
		_, err := engine.UploadWithOptimization(ctx, storage.UploadInput{
			OrgID: 1, Bucket: "uploads", Filename: "overflow.bin", MimeType: "application/octet-stream",
			Data: bytes.Repeat([]byte{0x03}, 200),
		})
		var admErr *storage.AdmissionError
		require.ErrorAs(t, err, &admErr, "an upload past the cap must be refused")
		assert.Equal(t, "storage quota exceeded", admErr.Reason)

		quota, err := appStore.GetQuota(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), quota.CurrentUsageBytes, "a refused upload must not change usage")
	})

	// --- Cycle 3: The optimizer flags stale files and raises an alert ---
	t.Run("Cycle 3: Optimizer Scan", func(t *testing.T) {
		// Age the first upload past the stale horizon.
		stale := time.Now().UTC().AddDate(0, 0, -400)
		require.NoError(t, testDB.Model(&model.UsageRecord{ID: firstRecordID}).
			Update("last_accessed_at", stale).Error)

		optimizerService.ScanOnce(ctx)

		recs, err := appStore.GetUsageRecords(ctx, []string{firstRecordID})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, model.RecommendationDelete, recs[0].Recommendation)
		assert.Equal(t, int64(400), recs[0].PotentialSavings)

		// 900 of 1000 bytes used: the scan crosses into warning.
		select {
		case alert := <-pool.Jobs():
			assert.Equal(t, int64(1), alert.OrgID)
			assert.Equal(t, storage.StatusWarning, alert.Status)
		default:
			t.Fatal("expected a storage alert after crossing into warning")
		}
	})

	// --- Cycle 4: Implementing the recommendation frees the quota ---
	t.Run("Cycle 4: Cleanup Returns Quota", func(t *testing.T) {
		outcome, err := engine.ImplementRecommendations(ctx, 1, []string{firstRecordID})
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Succeeded)
		assert.Zero(t, outcome.Failed)
		assert.Equal(t, int64(400), outcome.BytesFreed)

		quota, err := appStore.GetQuota(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(500), quota.CurrentUsageBytes)

		// The refused upload from cycle 2 now fits.
		_, err = engine.UploadWithOptimization(ctx, storage.UploadInput{
			OrgID: 1, Bucket: "uploads", Filename: "overflow.bin", MimeType: "application/octet-stream",
			Data: bytes.Repeat([]byte{0x03}, 200),
		})
		require.NoError(t, err)

		quota, err = appStore.GetQuota(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(700), quota.CurrentUsageBytes)
	})
}
