package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"tagcly-telemetry-backend/internal/model"
)

// AlertSender defines the interface for sending a web push alert.
type AlertSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of AlertSender using the webpush
// library.
type WebPushSender struct{}

// Send sends an alert using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending lost-pet alerts. Ingestion
// dispatches a pet id whenever a reading classifies the pet as lost; delivery
// failures never reach the ingestion path.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  AlertSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size),
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

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case petID := <-wp.jobs:
			log.Printf("Alert worker %d processing pet %s", id, petID)
			wp.sendAlertsForPet(ctx, petID)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a lost-pet alert for a pet. It never blocks the caller: if
// the queue is full the alert is dropped with a log line.
func (wp *WorkerPool) Dispatch(petID string) {
	select {
	case wp.jobs <- petID:
	default:
		log.Printf("Alert queue full, dropping alert for pet %s", petID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// sendAlertsForPet fetches subscriptions watching a pet and pushes the alert
// to each.
func (wp *WorkerPool) sendAlertsForPet(ctx context.Context, petID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_pet_mapping spm ON spm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("spm.pet_pet_id = ?", petID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for pet %s: %v", petID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d lost-pet alerts for pet %s", len(subscriptions), petID)

	message := fmt.Sprintf("Alert: pet %s has moved far from home and may be lost.", petID)
	for _, sub := range subscriptions {
		wp.sendAlert(ctx, sub, []byte(message))
	}
}

// sendAlert sends a single web push alert.
func (wp *WorkerPool) sendAlert(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending alert to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
