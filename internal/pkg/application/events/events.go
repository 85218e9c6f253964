// Package events notifies external subscribers when the engine writes a
// geocoded position back onto a site. Subscribers are configured per event
// type in the application config.
package events

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const SiteGeocodedType = "cartosync.sitegeocoded"

type SiteGeocoded struct {
	SiteID    string    `json:"siteID"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NotificationConfig struct {
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []NotificationConfig `yaml:"notifications"`
}

//go:generate moq -rm -out events_mock.go . EventSender
type EventSender interface {
	Send(ctx context.Context, message SiteGeocoded) error
}

type eventSender struct {
	subscribers map[string][]SubscriberConfig
}

func New(cfg *Config) EventSender {
	e := &eventSender{
		subscribers: make(map[string][]SubscriberConfig),
	}

	if cfg != nil {
		for _, n := range cfg.Notifications {
			e.subscribers[n.Type] = n.Subscribers
		}
	}

	return e
}

func (e *eventSender) Send(ctx context.Context, message SiteGeocoded) error {
	subscribers, ok := e.subscribers[SiteGeocodedType]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return err
	}

	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%s:%d", message.SiteID, message.Timestamp.Unix()))
	event.SetTime(message.Timestamp)
	event.SetSource("github.com/courseo/cartosync")
	event.SetType(SiteGeocodedType)

	err = event.SetData(cloudevents.ApplicationJSON, message)
	if err != nil {
		return err
	}

	log := logging.GetFromContext(ctx)

	for _, s := range subscribers {
		target := cloudevents.ContextWithTarget(ctx, s.Endpoint)
		result := c.Send(target, event)
		if cloudevents.IsUndelivered(result) {
			log.Error("failed to deliver event", "endpoint", s.Endpoint, "err", result.Error())
			err = result
		}
	}

	return err
}
