package geocoding

import (
	"context"
	"time"

	"github.com/courseo/cartosync/internal/pkg/application/events"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// BatchSummary is the aggregate a batch run reports instead of surfacing
// every individual failure.
type BatchSummary struct {
	Total      int `json:"total"`
	Skipped    int `json:"skipped"`
	Resolved   int `json:"resolved"`
	FromCache  int `json:"fromCache"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
}

// Service resolves site addresses and writes the coordinates back through
// the document store, so the next collection load picks them up.
type Service struct {
	client    *Client
	store     documentstore.Store
	messenger messaging.MsgContext
	notifier  events.EventSender
}

func NewService(client *Client, store documentstore.Store, messenger messaging.MsgContext, notifier events.EventSender) *Service {
	return &Service{
		client:    client,
		store:     store,
		messenger: messenger,
		notifier:  notifier,
	}
}

// GeocodeSite resolves and persists one site, regardless of any position it
// already has. A nil result with a nil error means the address could not be
// resolved.
func (s *Service) GeocodeSite(ctx context.Context, site types.Site) (*Result, error) {
	result := s.client.Geocode(ctx, site.Name, site.Address, site.City, site.PostalCode)
	if result == nil {
		return nil, nil
	}

	err := s.store.UpdateSitePosition(ctx, site.ID, result.Latitude, result.Longitude)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, site.ID, result)

	return result, nil
}

// GeocodeAll walks the collection sequentially, skipping sites that already
// have a position. Provider calls are separated by the configured delay;
// cache hits cost nothing. Failures never abort the batch.
func (s *Service) GeocodeAll(ctx context.Context, sites []types.Site) BatchSummary {
	log := logging.GetFromContext(ctx)

	summary := BatchSummary{Total: len(sites)}
	providerCalls := 0

	throttle := func() {
		if providerCalls > 0 {
			s.client.sleep(s.client.delay)
		}
		providerCalls++
	}

	for _, site := range sites {
		if site.HasPosition() {
			summary.Skipped++
			continue
		}

		result, _ := s.client.geocode(ctx, site.Name, site.Address, site.City, site.PostalCode, throttle)
		if result == nil {
			summary.Unresolved++
			continue
		}

		err := s.store.UpdateSitePosition(ctx, site.ID, result.Latitude, result.Longitude)
		if err != nil {
			log.Error("could not persist geocoded position", "site_id", site.ID, "err", err.Error())
			summary.Failed++
			continue
		}

		summary.Resolved++
		if result.FromCache {
			summary.FromCache++
		}

		s.announce(ctx, site.ID, result)
	}

	return summary
}

// announce publishes the position update on the message bus and notifies any
// configured external subscribers. Both are best effort.
func (s *Service) announce(ctx context.Context, siteID string, result *Result) {
	log := logging.GetFromContext(ctx)
	now := time.Now().UTC()

	if s.messenger != nil {
		err := s.messenger.PublishOnTopic(ctx, &types.SitePositionUpdated{
			SiteID:    siteID,
			Latitude:  result.Latitude,
			Longitude: result.Longitude,
			Source:    "geocoding",
			Timestamp: now,
		})
		if err != nil {
			log.Error("could not publish position update", "site_id", siteID, "err", err.Error())
		}
	}

	if s.notifier != nil {
		err := s.notifier.Send(ctx, events.SiteGeocoded{
			SiteID:    siteID,
			Latitude:  result.Latitude,
			Longitude: result.Longitude,
			Timestamp: now,
		})
		if err != nil {
			log.Error("could not notify subscribers", "site_id", siteID, "err", err.Error())
		}
	}
}
