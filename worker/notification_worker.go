package worker

import (
	"context"
	"fmt"
	"time"

	"hrms/metrics"
	"hrms/models"
	"hrms/notify"
	"hrms/store"

	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval    = 30 * time.Second
	DefaultBatchSize   = 20
	DefaultMaxAttempts = 3
)

// NotificationWorker drains the notification outbox through a mailer
type NotificationWorker struct {
	Store       store.NotificationStore
	Mailer      notify.Mailer
	Logger      logrus.FieldLogger
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func NewNotificationWorker(st store.NotificationStore, mailer notify.Mailer, logger logrus.FieldLogger, interval time.Duration) *NotificationWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &NotificationWorker{
		Store:       st,
		Mailer:      mailer,
		Logger:      logger.WithField("worker", "notifications"),
		Interval:    interval,
		BatchSize:   DefaultBatchSize,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Start blocks until ctx is cancelled
func (w *NotificationWorker) Start(ctx context.Context) {
	w.Logger.Info("Notification worker started")

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("Notification worker shutting down...")
			return
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				w.Logger.WithError(err).Error("Error processing notifications")
			}
		}
	}
}

// ProcessPending sends one batch and returns how many were delivered
func (w *NotificationWorker) ProcessPending(ctx context.Context) (int, error) {
	pending, err := w.Store.PendingNotifications(ctx, w.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending notifications: %w", err)
	}

	sent := 0
	for i := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		n := &pending[i]
		if w.deliver(ctx, n) {
			sent++
		}
		if err := w.Store.SaveNotification(ctx, n); err != nil {
			w.Logger.WithError(err).WithField("notification_id", n.ID).Error("Error saving notification state")
		}
	}
	return sent, nil
}

func (w *NotificationWorker) deliver(ctx context.Context, n *models.Notification) bool {
	n.Attempts++
	err := w.Mailer.Send(ctx, n.Email, n.Subject, n.Body)
	if err == nil {
		now := time.Now()
		n.Status = models.NotificationSent
		n.SentAt = &now
		n.LastError = ""
		metrics.ObserveNotification("sent")
		return true
	}

	n.LastError = err.Error()
	log := w.Logger.WithError(err).WithFields(logrus.Fields{
		"notification_id": n.ID,
		"attempt":         n.Attempts,
	})
	if n.Attempts >= w.MaxAttempts {
		n.Status = models.NotificationFailed
		metrics.ObserveNotification("failed")
		log.Error("Notification failed permanently")
	} else {
		metrics.ObserveNotification("retry")
		log.Warn("Notification delivery failed, will retry")
	}
	return false
}
