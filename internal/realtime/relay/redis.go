// Package relay carries push events between server instances over Redis
// pub/sub. It is best-effort like the hub itself: nothing is queued in Redis,
// and a subscriber that is down misses whatever was published meanwhile.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"clinicdesk/pkg/platform/circuit"
)

const defaultOutboxSize = 256

// Sink receives events that originated on another instance.
type Sink interface {
	Deliver(ctx context.Context, kind string, payload []byte)
}

// envelope is the wire form on the Redis channel. Origin lets an instance
// skip its own echo.
type envelope struct {
	Origin  string          `json:"origin"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type kindProbe struct {
	Type string `json:"type"`
}

// Redis publishes local events and delivers remote ones.
type Redis struct {
	client     redis.UniversalClient
	channel    string
	instanceID string
	outbox     chan []byte
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

// Option configures the relay.
type Option func(*Redis)

// WithLogger sets the relay logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Redis) {
		r.logger = logger
	}
}

// WithOutboxSize bounds how many local events may wait for publication.
func WithOutboxSize(n int) Option {
	return func(r *Redis) {
		if n > 0 {
			r.outbox = make(chan []byte, n)
		}
	}
}

// WithBreaker replaces the breaker guarding publishes. While it is open,
// local events are not offered to Redis at all.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Redis) {
		if b != nil {
			r.breaker = b
		}
	}
}

// New creates a relay on channel. Call Run to start it.
func New(client redis.UniversalClient, channel string, opts ...Option) *Redis {
	r := &Redis{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		outbox:     make(chan []byte, defaultOutboxSize),
		breaker:    circuit.New("redis-relay"),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InstanceID identifies this process on the channel.
func (r *Redis) InstanceID() string {
	return r.instanceID
}

// Publish queues payload for the other instances. It never blocks; when the
// outbox is full the event is dropped for remote listeners only.
func (r *Redis) Publish(payload []byte) {
	select {
	case r.outbox <- payload:
	default:
		r.logger.Warn("relay outbox full, dropping event",
			"channel", r.channel,
		)
	}
}

// Run subscribes to the channel and drains the outbox until ctx is done.
// Remote events are handed to sink.
func (r *Redis) Run(ctx context.Context, sink Sink) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		_ = pubsub.Close()
	}()
	// confirm the subscription before anything is published
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	r.logger.InfoContext(ctx, "relay subscribed",
		"channel", r.channel,
		"instance_id", r.instanceID,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.publishLoop(ctx)
	})
	g.Go(func() error {
		return r.receiveLoop(ctx, pubsub.Channel(), sink)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Redis) publishLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload := <-r.outbox:
			r.publish(ctx, payload)
		}
	}
}

// publish sends one local event unless the breaker is open.
func (r *Redis) publish(ctx context.Context, payload []byte) {
	if !r.breaker.Allow() {
		r.logger.DebugContext(ctx, "relay circuit open, dropping event", "channel", r.channel)
		return
	}
	var probe kindProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		r.logger.WarnContext(ctx, "relaying event without a kind", "error", err)
	}
	msg, err := json.Marshal(envelope{
		Origin:  r.instanceID,
		Kind:    probe.Type,
		Payload: payload,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to encode relay envelope", "error", err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.WarnContext(ctx, "relay publish failed",
			"channel", r.channel,
			"error", err,
		)
		if r.breaker.RecordFailure().Opened {
			r.logger.WarnContext(ctx, "relay circuit opened", "channel", r.channel)
		}
		return
	}
	if r.breaker.RecordSuccess().Closed {
		r.logger.InfoContext(ctx, "relay circuit closed", "channel", r.channel)
	}
}

func (r *Redis) receiveLoop(ctx context.Context, messages <-chan *redis.Message, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("relay subscription closed")
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.WarnContext(ctx, "discarding malformed relay message",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			if env.Origin == r.instanceID || len(env.Payload) == 0 {
				continue
			}
			sink.Deliver(ctx, env.Kind, env.Payload)
		}
	}
}
