/*
scheduler.go - Automated compliance alert scheduler

PURPOSE:
  Periodically scans leave requests for approaching or missed certification
  deadlines and generates the corresponding HR notifications so deadlines
  are never silently blown.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Generates certification_due notices when a deadline is within the
    warning window and the certification is incomplete
  - Generates cure_window notices when a request enters the cure window
  - Skips requests that already have a notification of that kind, so
    repeated scans never duplicate alerts

CONFIGURATION:
  - CheckInterval: How often to scan (default: 1 hour)
  - WarningDays:   How far ahead a deadline counts as approaching
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewAlertScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CreateNotification endpoint (manual generation)
  - fmla/compliance.go: Risk classification
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/fmla-tracker/fmla"
)

// AlertScheduler generates deadline notifications in the background.
type AlertScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	WarningDays   int
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAlertScheduler creates a new scheduler.
func NewAlertScheduler(handler *Handler) *AlertScheduler {
	return &AlertScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		WarningDays:   fmla.DefaultWarningDays,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (as *AlertScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		as.Handler.Logger.Info("alert scheduler disabled, not starting")
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.wg.Add(1)

	go as.run()

	as.Handler.Logger.Info("alert scheduler started",
		zap.Duration("check_interval", as.CheckInterval))
}

// Stop stops the scheduler.
func (as *AlertScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		as.Handler.Logger.Info("alert scheduler stopped")
	}
}

func (as *AlertScheduler) run() {
	defer as.wg.Done()

	// Run immediately on start
	as.scan()

	for {
		select {
		case <-as.ticker.C:
			as.scan()
		case <-as.stop:
			return
		}
	}
}

// RunNow triggers an immediate scan (for testing/admin).
func (as *AlertScheduler) RunNow() {
	as.scan()
}

func (as *AlertScheduler) scan() {
	ctx := context.Background()
	h := as.Handler
	logger := h.Logger

	reqs, err := h.Store.ListLeaveRequests(ctx)
	if err != nil {
		logger.Error("alert scan failed to list leave requests", zap.Error(err))
		return
	}

	generated := 0
	for _, req := range reqs {
		status := h.Checker.CheckCompliance(req)

		var kind fmla.NotificationType
		switch {
		case status.InCureWindow:
			kind = fmla.NotifyCureWindow
		case !status.CertificationComplete && status.DaysUntilCertificationDeadline >= 0 &&
			status.DaysUntilCertificationDeadline <= as.WarningDays:
			kind = fmla.NotifyCertificationDue
		default:
			continue
		}

		already, err := as.alreadyNotified(ctx, req.ID, kind)
		if err != nil {
			logger.Error("alert scan failed to check existing notifications",
				zap.String("request_id", req.ID), zap.Error(err))
			continue
		}
		if already {
			continue
		}

		notification, err := h.Notify.Build(req, kind, h.notificationParams(req))
		if err != nil {
			logger.Error("alert scan failed to build notification",
				zap.String("request_id", req.ID), zap.Error(err))
			continue
		}
		if err := h.Store.SaveNotification(ctx, notification); err != nil {
			logger.Error("alert scan failed to save notification",
				zap.String("request_id", req.ID), zap.Error(err))
			continue
		}

		generated++
		logger.Info("deadline alert generated",
			zap.String("request_id", req.ID),
			zap.String("type", string(kind)),
			zap.Int("days_until_deadline", status.DaysUntilCertificationDeadline))
	}

	if generated > 0 {
		logger.Info("alert scan completed", zap.Int("generated", generated))
	}
}

// alreadyNotified reports whether a notification of this kind already exists
// for the request.
func (as *AlertScheduler) alreadyNotified(ctx context.Context, requestID string, kind fmla.NotificationType) (bool, error) {
	existing, err := as.Handler.Store.NotificationsByRequest(ctx, requestID)
	if err != nil {
		return false, err
	}
	for _, n := range existing {
		if n.Type == kind {
			return true, nil
		}
	}
	return false, nil
}
