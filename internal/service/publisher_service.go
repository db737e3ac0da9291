package service

import (
	"context"
	"encoding/json"
	"time"

	"neurobridge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IEventPublisher puts domain events on the in-process bus. The consumer
// service drains the bus and forwards to NATS, keeping slow external
// publishing off the gateway's handler path.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type eventEnvelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type publisherService struct {
	topic  string
	pubSub *gochannel.GoChannel
}

func NewPublisherService(topic string, pubSub *gochannel.GoChannel) IEventPublisher {
	return &publisherService{
		topic:  topic,
		pubSub: pubSub,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(eventEnvelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pubSub.Publish(p.topic, msg)
}
