package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"mintid-backend/internal/model"
	"mintid-backend/internal/storage"
)

// QuotaAlert is one job for the pool: an organization whose storage
// usage has crossed into an alerting band.
type QuotaAlert struct {
	OrgID   int64
	Status  storage.UsageStatus
	Percent float64
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering quota alerts.
type WorkerPool struct {
	size    int
	jobs    chan QuotaAlert
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan QuotaAlert, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			log.Printf("Alert worker %d processing org %d (%s)", id, alert.OrgID, alert.Status)
			wp.sendAlertsForOrg(ctx, alert)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(alert QuotaAlert) {
	wp.jobs <- alert
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan QuotaAlert {
	return wp.jobs
}

// sendAlertsForOrg fetches the organization's subscriptions and sends
// the alert to each of them.
func (wp *WorkerPool) sendAlertsForOrg(ctx context.Context, alert QuotaAlert) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("org_id = ?", alert.OrgID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for org %d: %v", alert.OrgID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	orgLabel := fmt.Sprintf("organization %d", alert.OrgID)
	var org model.Organization
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&org, alert.OrgID).Error; err != nil {
		log.Printf("Error fetching org %d: %v", alert.OrgID, err)
	} else if org.Name != "" {
		orgLabel = org.Name
	}

	payload, err := json.Marshal(map[string]string{
		"title": "Storage alert",
		"body":  fmt.Sprintf("Storage for %s is at %.0f%% (%s)", orgLabel, alert.Percent, alert.Status),
	})
	if err != nil {
		log.Printf("Error marshaling alert payload for org %d: %v", alert.OrgID, err)
		return
	}

	log.Printf("Sending %d storage alerts for org %d", len(subscriptions), alert.OrgID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
