package relay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicdesk/pkg/platform/circuit"
)

func TestPublishNeverBlocks(t *testing.T) {
	r := New(nil, "clinicdesk:test", WithOutboxSize(1))

	r.Publish([]byte(`{"type":"status_update"}`))
	done := make(chan struct{})
	go func() {
		r.Publish([]byte(`{"type":"status_update"}`))
		close(done)
	}()
	<-done

	assert.Len(t, r.outbox, 1)
}

func TestInstanceIDsAreDistinct(t *testing.T) {
	a := New(nil, "c")
	b := New(nil, "c")
	assert.NotEmpty(t, a.InstanceID())
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}

// publishCounter counts commands that reach the network layer.
type publishCounter struct {
	calls atomic.Int32
}

func (h *publishCounter) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *publishCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "publish" {
			h.calls.Add(1)
		}
		return next(ctx, cmd)
	}
}

func (h *publishCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPublishFailuresOpenBreaker(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	counter := &publishCounter{}
	client.AddHook(counter)

	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	r := New(client, "clinicdesk:test", WithBreaker(breaker))
	payload := []byte(`{"type":"status_update","data":{"id":1}}`)

	r.publish(context.Background(), payload)
	r.publish(context.Background(), payload)
	require.True(t, breaker.IsOpen())
	require.EqualValues(t, 2, counter.calls.Load())

	r.publish(context.Background(), payload)
	assert.EqualValues(t, 2, counter.calls.Load(), "open breaker skips redis")
}

func TestPublishWithoutKindStillTriesRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	counter := &publishCounter{}
	client.AddHook(counter)

	r := New(client, "clinicdesk:test")
	r.publish(context.Background(), []byte(`[1,2]`))
	assert.EqualValues(t, 1, counter.calls.Load())
}
