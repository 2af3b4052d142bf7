//go:build integration

package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicdesk/pkg/testutil/containers"
)

type delivery struct {
	kind    string
	payload string
}

type recordingSink struct {
	mu  sync.Mutex
	got []delivery
}

func (s *recordingSink) Deliver(_ context.Context, kind string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, delivery{kind: kind, payload: string(payload)})
}

func (s *recordingSink) Deliveries() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivery(nil), s.got...)
}

func startRelay(t *testing.T, parent context.Context, r *Redis, sink Sink) {
	t.Helper()
	ctx, cancel := context.WithCancel(parent)
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, sink) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("relay did not stop")
		}
	})
}

func TestRelayAcrossInstances(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	const channel = "clinicdesk:events:test"
	a, b := New(rc.Client, channel), New(rc.Client, channel)
	sinkA, sinkB := &recordingSink{}, &recordingSink{}
	startRelay(t, ctx, a, sinkA)
	startRelay(t, ctx, b, sinkB)

	require.Eventually(t, func() bool {
		n, err := rc.Client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 2
	}, 5*time.Second, 50*time.Millisecond)

	a.Publish([]byte(`{"type":"status_update","data":{"id":1,"status":"completed"}}`))

	require.Eventually(t, func() bool { return len(sinkB.Deliveries()) == 1 }, 5*time.Second, 20*time.Millisecond)
	got := sinkB.Deliveries()[0]
	assert.Equal(t, "status_update", got.kind)
	assert.JSONEq(t, `{"type":"status_update","data":{"id":1,"status":"completed"}}`, got.payload)

	// origin never hears its own event back
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, sinkA.Deliveries())
}

func TestRelayIgnoresForeignGarbage(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	const channel = "clinicdesk:events:garbage"
	r := New(rc.Client, channel)
	sink := &recordingSink{}
	startRelay(t, ctx, r, sink)

	require.Eventually(t, func() bool {
		n, err := rc.Client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 1
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, rc.Client.Publish(ctx, channel, "not an envelope").Err())
	require.NoError(t, rc.Client.Publish(ctx, channel, `{"origin":"other","kind":"status_update","payload":{"type":"status_update"}}`).Err())

	require.Eventually(t, func() bool { return len(sink.Deliveries()) == 1 }, 5*time.Second, 20*time.Millisecond)
}
