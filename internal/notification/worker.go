package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool sends booking confirmations to the booking user's browsers.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool holding at most queueSize pending bookings.
func NewWorkerPool(size, queueSize int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
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
	log.Printf("Worker %d started", id)
	for {
		select {
		case bookingID := <-wp.jobs:
			log.Printf("Worker %d processing booking %d", id, bookingID)
			wp.sendBookingConfirmation(ctx, bookingID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a confirmation for bookingID without blocking.
// It reports false when the queue is full and the job was dropped.
func (wp *WorkerPool) Dispatch(bookingID int64) bool {
	select {
	case wp.jobs <- bookingID:
		return true
	default:
		log.Printf("Notification queue full, dropping confirmation for booking %d", bookingID)
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// confirmationMessage renders the push text for a booking.
func confirmationMessage(machine, date, start string) string {
	if start == "" {
		return fmt.Sprintf("Booking confirmed: %s on %s", machine, date)
	}
	return fmt.Sprintf("Booking confirmed: %s on %s %s", machine, date, start)
}

// sendBookingConfirmation notifies every subscription of the booking's user.
func (wp *WorkerPool) sendBookingConfirmation(ctx context.Context, bookingID int64) {
	var booking model.Booking
	if err := wp.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		log.Printf("Error fetching booking %d: %v", bookingID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Where("user_id = ?", booking.UserID).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", booking.UserID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for booking %d", len(subscriptions), bookingID)

	var machine model.LaundryMachine
	machineLabel := fmt.Sprintf("machine %d", booking.MachineID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&machine, booking.MachineID).Error; err != nil {
		log.Printf("Error fetching machine %d: %v", booking.MachineID, err)
	} else if machine.Name != "" {
		machineLabel = machine.Name
	}

	var start string
	if booking.TimeslotID != nil {
		var slot model.Timeslot
		if err := wp.db.WithContext(ctx).
			Select("start_time").
			First(&slot, *booking.TimeslotID).Error; err != nil {
			log.Printf("Error fetching timeslot %d: %v", *booking.TimeslotID, err)
		} else {
			start = slot.StartTime.String()
		}
	}

	message := confirmationMessage(machineLabel, booking.BookingDate, start)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
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
