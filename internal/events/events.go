// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"storescout_backend/platform/events"
	"storescout_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Listings Domain Events
// =============================================================================

// StoreSubmitted is published when an owner submits a store listing.
type StoreSubmitted struct {
	BaseEvent
	StoreID      uuid.UUID `json:"storeId"`
	BusinessName string    `json:"businessName"`
	StoreType    string    `json:"storeType"`
	City         string    `json:"city,omitempty"`
}

func (e StoreSubmitted) EventName() string { return "listings.store.submitted" }

// TipSubmitted is published when a shopper submits a tip about a store.
type TipSubmitted struct {
	BaseEvent
	TipID          uuid.UUID `json:"tipId"`
	StoreName      string    `json:"storeName"`
	SubmitterEmail string    `json:"submitterEmail,omitempty"`
}

func (e TipSubmitted) EventName() string { return "listings.tip.submitted" }

// ListingApproved is published when an admin approves a store or tip.
type ListingApproved struct {
	BaseEvent
	ListingID  uuid.UUID `json:"listingId"`
	SourceKind string    `json:"sourceKind"`
}

func (e ListingApproved) EventName() string { return "listings.listing.approved" }

// ListingRejected is published when an admin rejects a store or tip.
type ListingRejected struct {
	BaseEvent
	ListingID  uuid.UUID `json:"listingId"`
	SourceKind string    `json:"sourceKind"`
}

func (e ListingRejected) EventName() string { return "listings.listing.rejected" }
