// Package courierfeed tracks the last known position of each courier from
// position messages on the broker.
package courierfeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cartosync/courier-feed")

//go:generate moq -rm -out courierfeed_mock.go . CourierFeed

type CourierFeed interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Positions() []types.CourierPosition
	Position(courierID string) (types.CourierPosition, bool)
}

type feed struct {
	messenger messaging.MsgContext

	mu        sync.RWMutex
	running   bool
	positions map[string]types.CourierPosition
}

func New(messenger messaging.MsgContext) CourierFeed {
	return &feed{
		positions: map[string]types.CourierPosition{},
		messenger: messenger,
	}
}

// Start registers the topic handler with the messenger. Registration with the
// broker is permanent, so Stop flips a flag that makes the handler discard
// anything that arrives after teardown.
func (f *feed) Start(ctx context.Context) error {
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()

	return f.messenger.RegisterTopicMessageHandler("courier.positionUpdated", NewCourierPositionHandler(f))
}

func (f *feed) Stop(ctx context.Context) error {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()

	return nil
}

func (f *feed) Positions() []types.CourierPosition {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]types.CourierPosition, 0, len(f.positions))
	for _, p := range f.positions {
		result = append(result, p)
	}

	return result
}

func (f *feed) Position(courierID string) (types.CourierPosition, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.positions[courierID]
	return p, ok
}

func (f *feed) update(msg types.CourierPositionUpdated) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return false
	}

	current, exists := f.positions[msg.CourierID]
	if exists && msg.Timestamp.Before(current.ObservedAt) {
		return false
	}

	f.positions[msg.CourierID] = types.CourierPosition{
		CourierID:  msg.CourierID,
		Name:       msg.Name,
		Location:   types.Location{Latitude: msg.Latitude, Longitude: msg.Longitude},
		ObservedAt: msg.Timestamp,
	}

	return true
}

func NewCourierPositionHandler(f *feed) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "courier-position-updated")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, _, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		msg := types.CourierPositionUpdated{}

		err = json.Unmarshal(itm.Body(), &msg)
		if err != nil {
			log.Error("failed to unmarshal message", "err", err.Error())
			return
		}

		if msg.CourierID == "" {
			log.Warn("ignoring courier position without courier id")
			return
		}

		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now().UTC()
		}

		if !f.update(msg) {
			log.Debug("ignoring stale courier position", "courier_id", msg.CourierID)
		}
	}
}
