package services

import (
	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"

	"github.com/asaskevich/EventBus"
)

// FeedService exposes the committed event log to polling clients and hosts
// the in-process fanout subscribers.
type FeedService struct {
	Events *repos.EventRepo
}

func NewFeedService(events *repos.EventRepo) *FeedService {
	return &FeedService{Events: events}
}

// Since returns events with seq > after, oldest first. kind narrows the
// feed to one topic when non-empty.
func (s *FeedService) Since(after int64, limit int, kind string) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if kind != "" {
		return s.Events.SinceKind(kind, after, limit)
	}
	return s.Events.Since(after, limit)
}

// AttachAudit subscribes an audit logger to both marketplace topics so
// every commit leaves a log line beyond the event row itself.
func (s *FeedService) AttachAudit(bus EventBus.Bus) error {
	onListed := func(p domain.Product) {
		applog.Audit(nil, "market.listed", map[string]any{
			"id": p.ID, "name": p.Name, "price": p.Price, "owner": p.Owner,
		})
	}
	onPurchased := func(p domain.Product) {
		applog.Audit(nil, "market.purchased", map[string]any{
			"id": p.ID, "seller": p.Seller, "buyer": p.Owner, "price": p.Price,
		})
	}
	if err := bus.Subscribe(EventProductListed, onListed); err != nil {
		return err
	}
	return bus.Subscribe(EventProductPurchased, onPurchased)
}
