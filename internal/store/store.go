package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mintid-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Organizations
	GetOrganization(ctx context.Context, id int64) (model.Organization, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)

	// Shifts
	ListShifts(ctx context.Context, orgID int64, filter ShiftFilter) ([]model.ShiftRecord, error)
	CreateShift(ctx context.Context, shift *model.ShiftRecord) error
	UpdateShift(ctx context.Context, shift *model.ShiftRecord) error
	DeleteShift(ctx context.Context, orgID, id int64) error

	// Tasks
	ListTasks(ctx context.Context, orgID int64) ([]model.TaskRecord, error)
	CreateTask(ctx context.Context, task *model.TaskRecord) error
	UpdateTask(ctx context.Context, task *model.TaskRecord) error
	DeleteTask(ctx context.Context, orgID, id int64) error

	// Storage quota. ReserveStorage is the authoritative admission
	// gate: a single conditional UPDATE that only succeeds when the
	// reservation fits under the cap, so two concurrent uploads can
	// never both pass on a stale read.
	GetQuota(ctx context.Context, orgID int64) (model.StorageQuota, error)
	EnsureQuota(ctx context.Context, orgID, maxBytes, bandwidthDaily int64) error
	ReserveStorage(ctx context.Context, orgID, bytes int64) (bool, error)
	ReleaseStorage(ctx context.Context, orgID, bytes int64) error

	// Bandwidth accounting
	RecordBandwidth(ctx context.Context, event *model.BandwidthEvent) error
	BandwidthUsedOn(ctx context.Context, orgID int64, day string) (int64, error)

	// Usage tracking
	CreateUsageRecord(ctx context.Context, rec *model.UsageRecord) error
	ListUsageRecords(ctx context.Context, orgID int64) ([]model.UsageRecord, error)
	GetUsageRecords(ctx context.Context, ids []string) ([]model.UsageRecord, error)
	DeleteUsageRecord(ctx context.Context, id string) error
	SaveRecommendations(ctx context.Context, recs []model.UsageRecord) error

	// Push subscriptions
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForOrg(ctx context.Context, orgID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetOrganization(ctx context.Context, id int64) (model.Organization, error) {
	var org model.Organization
	if err := s.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return model.Organization{}, err
	}
	return org, nil
}

func (s *gormStore) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := s.db.WithContext(ctx).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *gormStore) ListShifts(ctx context.Context, orgID int64, filter ShiftFilter) ([]model.ShiftRecord, error) {
	q := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}
	var shifts []model.ShiftRecord
	if err := q.Order("date, start_time").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (s *gormStore) CreateShift(ctx context.Context, shift *model.ShiftRecord) error {
	shift.Type = model.NormalizeShiftType(string(shift.Type))
	return s.db.WithContext(ctx).Create(shift).Error
}

func (s *gormStore) UpdateShift(ctx context.Context, shift *model.ShiftRecord) error {
	shift.Type = model.NormalizeShiftType(string(shift.Type))
	res := s.db.WithContext(ctx).
		Where("org_id = ?", shift.OrgID).
		Save(shift)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteShift(ctx context.Context, orgID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Delete(&model.ShiftRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) ListTasks(ctx context.Context, orgID int64) ([]model.TaskRecord, error) {
	var tasks []model.TaskRecord
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *gormStore) CreateTask(ctx context.Context, task *model.TaskRecord) error {
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	return s.db.WithContext(ctx).Create(task).Error
}

func (s *gormStore) UpdateTask(ctx context.Context, task *model.TaskRecord) error {
	res := s.db.WithContext(ctx).
		Where("org_id = ?", task.OrgID).
		Save(task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteTask(ctx context.Context, orgID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Delete(&model.TaskRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) GetQuota(ctx context.Context, orgID int64) (model.StorageQuota, error) {
	var quota model.StorageQuota
	if err := s.db.WithContext(ctx).First(&quota, "org_id = ?", orgID).Error; err != nil {
		return model.StorageQuota{}, err
	}
	return quota, nil
}

// EnsureQuota creates the quota row for an organization if it does not
// exist yet. Existing rows keep their configured limits.
func (s *gormStore) EnsureQuota(ctx context.Context, orgID, maxBytes, bandwidthDaily int64) error {
	quota := model.StorageQuota{
		OrgID:               orgID,
		MaxBytes:            maxBytes,
		BandwidthLimitDaily: bandwidthDaily,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}},
		DoNothing: true,
	}).Create(&quota).Error
}

func (s *gormStore) ReserveStorage(ctx context.Context, orgID, bytes int64) (bool, error) {
	if bytes < 0 {
		return false, fmt.Errorf("cannot reserve negative bytes: %d", bytes)
	}
	res := s.db.WithContext(ctx).
		Model(&model.StorageQuota{}).
		Where("org_id = ? AND current_usage_bytes + ? <= max_bytes", orgID, bytes).
		UpdateColumn("current_usage_bytes", gorm.Expr("current_usage_bytes + ?", bytes))
	if res.Error != nil {
		return false, fmt.Errorf("failed to reserve %d bytes for org %d: %w", bytes, orgID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) ReleaseStorage(ctx context.Context, orgID, bytes int64) error {
	// Clamp at zero so a double release cannot drive usage negative.
	res := s.db.WithContext(ctx).
		Model(&model.StorageQuota{}).
		Where("org_id = ?", orgID).
		UpdateColumn("current_usage_bytes", gorm.Expr(
			"CASE WHEN current_usage_bytes > ? THEN current_usage_bytes - ? ELSE 0 END", bytes, bytes))
	if res.Error != nil {
		return fmt.Errorf("failed to release %d bytes for org %d: %w", bytes, orgID, res.Error)
	}
	return nil
}

func (s *gormStore) RecordBandwidth(ctx context.Context, event *model.BandwidthEvent) error {
	if event.Day == "" {
		event.Day = time.Now().UTC().Format("2006-01-02")
	}
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *gormStore) BandwidthUsedOn(ctx context.Context, orgID int64, day string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.BandwidthEvent{}).
		Where("org_id = ? AND day = ?", orgID, day).
		Select("COALESCE(SUM(bytes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *gormStore) CreateUsageRecord(ctx context.Context, rec *model.UsageRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *gormStore) ListUsageRecords(ctx context.Context, orgID int64) ([]model.UsageRecord, error) {
	var recs []model.UsageRecord
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("file_size DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormStore) GetUsageRecords(ctx context.Context, ids []string) ([]model.UsageRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recs []model.UsageRecord
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormStore) DeleteUsageRecord(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.UsageRecord{ID: id}).Error
}

// SaveRecommendations writes the optimizer's classification back onto
// the tracking rows. Only the recommendation columns are touched.
func (s *gormStore) SaveRecommendations(ctx context.Context, recs []model.UsageRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			if err := tx.Model(&model.UsageRecord{ID: rec.ID}).
				Updates(map[string]any{
					"recommendation":    rec.Recommendation,
					"potential_savings": rec.PotentialSavings,
				}).Error; err != nil {
				return fmt.Errorf("failed to save recommendation for record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"org_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) SubscriptionsForOrg(ctx context.Context, orgID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
