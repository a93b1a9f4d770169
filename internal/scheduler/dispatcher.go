package scheduler

import (
	"context"
	"time"

	"storescout_backend/platform/logger"
)

// Dispatcher enqueues the recurring tasks on fixed intervals. It runs in
// the scheduler process alongside the worker.
type Dispatcher struct {
	client           *Client
	log              *logger.Logger
	backfillInterval time.Duration
	reportInterval   time.Duration
}

func NewDispatcher(client *Client, log *logger.Logger, backfillInterval, reportInterval time.Duration) *Dispatcher {
	if backfillInterval <= 0 {
		backfillInterval = time.Hour
	}
	if reportInterval <= 0 {
		reportInterval = 24 * time.Hour
	}
	return &Dispatcher{
		client:           client,
		log:              log,
		backfillInterval: backfillInterval,
		reportInterval:   reportInterval,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	backfill := time.NewTicker(d.backfillInterval)
	defer backfill.Stop()
	report := time.NewTicker(d.reportInterval)
	defer report.Stop()

	// Kick off one backfill sweep at startup so a restart does not delay
	// pending stores by a full interval.
	if err := d.client.EnqueueGeocodeBackfill(ctx, GeocodeBackfillPayload{}); err != nil {
		d.log.Error("failed to enqueue geocode backfill", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-backfill.C:
			if err := d.client.EnqueueGeocodeBackfill(ctx, GeocodeBackfillPayload{}); err != nil {
				d.log.Error("failed to enqueue geocode backfill", "error", err)
			}
		case <-report.C:
			if err := d.client.EnqueueExpiryReport(ctx, ExpiryReportPayload{}); err != nil {
				d.log.Error("failed to enqueue expiry report", "error", err)
			}
		}
	}
}
