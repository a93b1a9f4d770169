// Command store-geocode is a one-shot backfill: it resolves coordinates for
// physical stores whose geocoding failed or never ran, then exits. The
// scheduler runs the same sweep periodically; this CLI exists for manual
// catch-up after imports or extended Nominatim outages.
package main

import (
	"context"
	"strings"
	"time"

	"storescout_backend/internal/geocoding"
	"storescout_backend/internal/listings/repository"
	"storescout_backend/platform/config"
	"storescout_backend/platform/db"
	"storescout_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting store geocode backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	geocoder := geocoding.NewService(cfg, nil, log)

	const batchSize = 25
	for {
		stores, err := repo.ListStoresMissingCoordinates(ctx, batchSize)
		if err != nil {
			log.Error("failed to list stores", "error", err)
			return
		}
		if len(stores) == 0 {
			log.Info("no stores left to geocode")
			return
		}

		progress := false

		for _, store := range stores {
			address := joinParts(store.Address, store.City, store.State, store.ZipCode)
			if address == "" {
				log.Info("skipping store without address", "storeId", store.ID)
				continue
			}

			pt, err := geocoder.Resolve(ctx, address)
			if err != nil {
				log.Error("geocode failed", "storeId", store.ID, "address", address, "error", err)
				time.Sleep(time.Second)
				continue
			}

			if err := repo.UpdateStoreCoordinates(ctx, store.ID, pt.Lat, pt.Lon); err != nil {
				log.Error("failed to update store", "storeId", store.ID, "error", err)
				time.Sleep(time.Second)
				continue
			}

			log.Info("store geocoded", "storeId", store.ID, "lat", pt.Lat, "lon", pt.Lon)
			progress = true
			time.Sleep(time.Second)
		}

		if !progress {
			log.Info("no geocode progress in batch, stopping")
			return
		}
	}
}

func joinParts(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
