package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
	"github.com/madarsaconnect/madarsa-backend/pkg/metrics"
)

const defaultPublishTimeout = 10 * time.Second

// PublishResult is the awaitable half of a publish call.
type PublishResult interface {
	Get(ctx context.Context) (string, error)
}

// MessagePublisher abstracts the Pub/Sub publisher so tests can observe
// publishes without a live topic.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) PublishResult
}

// GCPPublisher adapts a concrete Pub/Sub publisher to MessagePublisher.
type GCPPublisher struct {
	*pubsub.Publisher
}

func (p GCPPublisher) Publish(ctx context.Context, msg *pubsub.Message) PublishResult {
	return p.Publisher.Publish(ctx, msg)
}

// Publisher emits change events after institution mutations. Publishing is
// best-effort: a failure is logged and counted, never returned to the caller,
// because the worst case is a stale stream until the next event.
type Publisher struct {
	pub     MessagePublisher
	logg    *logger.Logger
	metrics *metrics.ChangeFeedMetrics
	timeout time.Duration
	now     func() time.Time
}

// PublisherParams packages the publisher's dependencies.
type PublisherParams struct {
	Publisher MessagePublisher
	Logger    *logger.Logger
	Metrics   *metrics.ChangeFeedMetrics
	Timeout   time.Duration
	Now       func() time.Time
}

// NewPublisher builds the change-event publisher.
func NewPublisher(params PublisherParams) (*Publisher, error) {
	if params.Publisher == nil {
		return nil, errors.New("message publisher is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Timeout <= 0 {
		params.Timeout = defaultPublishTimeout
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Publisher{
		pub:     params.Publisher,
		logg:    params.Logger,
		metrics: params.Metrics,
		timeout: params.Timeout,
		now:     params.Now,
	}, nil
}

// InstitutionCreated emits a created event for the record.
func (p *Publisher) InstitutionCreated(ctx context.Context, id uuid.UUID) {
	p.publish(ctx, ActionCreated, id)
}

// InstitutionUpdated emits an updated event for the record.
func (p *Publisher) InstitutionUpdated(ctx context.Context, id uuid.UUID) {
	p.publish(ctx, ActionUpdated, id)
}

func (p *Publisher) publish(ctx context.Context, action Action, id uuid.UUID) {
	event := Event{
		Collection:    CollectionInstitutions,
		InstitutionID: id,
		Action:        action,
		OccurredAt:    p.now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logError(ctx, id, action, err)
		return
	}

	// Detach from the request's cancellation so an already-finished
	// mutation still gets its event out.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	result := p.pub.Publish(publishCtx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"collection":  event.Collection,
			"action":      string(event.Action),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	})
	if result == nil {
		p.logError(ctx, id, action, fmt.Errorf("publisher returned nil result"))
		return
	}
	if _, err := result.Get(publishCtx); err != nil {
		p.logError(ctx, id, action, err)
		return
	}
	p.metrics.IncPublished(string(action))
}

func (p *Publisher) logError(ctx context.Context, id uuid.UUID, action Action, err error) {
	p.metrics.IncPublishFailure(string(action))
	logCtx := p.logg.WithFields(ctx, map[string]any{
		"institution_id": id.String(),
		"action":         string(action),
	})
	p.logg.Error(logCtx, "failed to publish change event", err)
}
