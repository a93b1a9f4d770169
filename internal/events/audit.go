package events

import (
	"context"

	"storescout_backend/platform/logger"
)

// RegisterAuditLog subscribes a logging handler for every listing lifecycle
// event, so submissions and moderation decisions leave a trace without the
// service knowing about logging.
func RegisterAuditLog(bus Bus, log *logger.Logger) {
	h := auditHandler(log)
	for _, name := range []string{
		StoreSubmitted{}.EventName(),
		TipSubmitted{}.EventName(),
		ListingApproved{}.EventName(),
		ListingRejected{}.EventName(),
	} {
		bus.Subscribe(name, h)
	}
}

func auditHandler(log *logger.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, event Event) error {
		l := log.WithContext(ctx)
		switch e := event.(type) {
		case StoreSubmitted:
			l.Info("listing_event",
				"event", e.EventName(),
				"store_id", e.StoreID.String(),
				"business_name", e.BusinessName,
				"store_type", e.StoreType,
			)
		case TipSubmitted:
			l.Info("listing_event",
				"event", e.EventName(),
				"tip_id", e.TipID.String(),
				"store_name", e.StoreName,
			)
		case ListingApproved:
			l.Info("listing_event",
				"event", e.EventName(),
				"listing_id", e.ListingID.String(),
				"source_kind", e.SourceKind,
			)
		case ListingRejected:
			l.Info("listing_event",
				"event", e.EventName(),
				"listing_id", e.ListingID.String(),
				"source_kind", e.SourceKind,
			)
		default:
			l.Info("listing_event", "event", event.EventName())
		}
		return nil
	})
}
