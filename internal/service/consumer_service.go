package service

import (
	"context"
	"encoding/json"

	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/pkg/events"
	pktNats "neurobridge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	eventSink *pktNats.Publisher
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, eventSink *pktNats.Publisher, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		eventSink: eventSink,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Ack regardless: audit events are best-effort, we never want to wedge
	// the in-process bus behind an unreachable NATS.
	defer msg.Ack()

	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Warn("ConsumerService", "Dropping malformed event payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if cs.eventSink == nil {
		return
	}

	event := events.BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Data,
		OccurredAt: envelope.OccurredAt,
	}
	if err := cs.eventSink.Publish(ctx, event); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to forward event to NATS", map[string]interface{}{
			"event": envelope.Type,
			"error": err.Error(),
		})
	}
}
