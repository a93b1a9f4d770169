package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/repository"
	"storescout_backend/platform/config"
	"storescout_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Geocoder is the address resolution dependency of the backfill task.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geo.Point, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	repo     *repository.Repository
	geocoder Geocoder
	log      *logger.Logger
}

func NewWorker(cfg config.RedisConfig, pool *pgxpool.Pool, geocoder Geocoder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		repo:     repository.New(pool),
		geocoder: geocoder,
		log:      log,
	}

	mux.HandleFunc(TaskGeocodeBackfill, w.handleGeocodeBackfill)
	mux.HandleFunc(TaskExpiryReport, w.handleExpiryReport)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleGeocodeBackfill re-resolves coordinates for stores whose geocoding
// failed at submission time. One second between upstream calls keeps the
// Nominatim usage policy happy.
func (w *Worker) handleGeocodeBackfill(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseGeocodeBackfillPayload(task)
	if err != nil {
		return err
	}

	batchSize := payload.BatchSize
	if batchSize < 1 {
		batchSize = 25
	}

	stores, err := w.repo.ListStoresMissingCoordinates(ctx, batchSize)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		w.log.Info("no stores left to geocode")
		return nil
	}

	for _, store := range stores {
		address := joinAddress(store.Address, store.City, store.State, store.ZipCode)
		if address == "" {
			w.log.Info("skipping store without address", "storeId", store.ID)
			continue
		}

		pt, err := w.geocoder.Resolve(ctx, address)
		if err != nil {
			w.log.GeocodeFailure(address, err)
			pace(ctx)
			continue
		}

		if err := w.repo.UpdateStoreCoordinates(ctx, store.ID, pt.Lat, pt.Lon); err != nil {
			w.log.Error("failed to update store coordinates", "storeId", store.ID, "error", err)
			pace(ctx)
			continue
		}

		w.log.Info("store geocoded", "storeId", store.ID, "lat", pt.Lat, "lon", pt.Lon)
		pace(ctx)
	}

	return nil
}

// handleExpiryReport logs how many approved listings lapsed inside the
// report window.
func (w *Worker) handleExpiryReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExpiryReportPayload(task)
	if err != nil {
		return err
	}

	windowHours := payload.WindowHours
	if windowHours < 1 {
		windowHours = 24
	}

	to := time.Now().UTC()
	from := to.Add(-time.Duration(windowHours) * time.Hour)

	stores, tips, err := w.repo.CountLapsedBetween(ctx, from, to)
	if err != nil {
		return err
	}

	w.log.Info("expiry report",
		"from", from.Format(time.RFC3339),
		"to", to.Format(time.RFC3339),
		"lapsedStores", stores,
		"lapsedTips", tips,
	)
	return nil
}

func joinAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func pace(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
}
