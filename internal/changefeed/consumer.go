package changefeed

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

// Consumer bridges cross-instance change events from Pub/Sub into the
// in-process hub so every API instance's SSE streams see every mutation.
type Consumer struct {
	subscription *pubsub.Subscriber
	hub          *Hub
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(subscription *pubsub.Subscriber, hub *Hub, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("subscription is required")
	}
	if hub == nil {
		return nil, errors.New("hub is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		hub:          hub,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription
// errors. Malformed payloads are acked and logged; redelivery cannot fix them.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.process(ctx, msg)
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logCtx := c.logg.WithField(ctx, "message_id", msg.ID)
		c.logg.Error(logCtx, "failed to unmarshal change event", err)
		return
	}
	if event.Collection != CollectionInstitutions {
		logCtx := c.logg.WithField(ctx, "collection", event.Collection)
		c.logg.Warn(logCtx, "skipping event for unknown collection")
		return
	}
	c.hub.Broadcast(event)
}
