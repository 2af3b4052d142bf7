package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/websocket"

	"clinicdesk/internal/clinic/handler/mocks"
	"clinicdesk/internal/clinic/models"
	"clinicdesk/internal/realtime/hub"
)

func newPushServer(t *testing.T, pushHub *hub.Hub) *httptest.Server {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := New(mocks.NewMockService(ctrl), pushHub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(pushHub.Close)
	return srv
}

func dialPush(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg string
	require.NoError(t, websocket.Message.Receive(conn, &msg))
	return msg
}

func waitForConnections(t *testing.T, pushHub *hub.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return pushHub.Len() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketReceivesBroadcasts(t *testing.T) {
	pushHub := hub.New()
	srv := newPushServer(t, pushHub)
	a := dialPush(t, srv)
	b := dialPush(t, srv)
	waitForConnections(t, pushHub, 2)

	email := "asha@example.com"
	pushHub.Broadcast(context.Background(), models.NewStatusUpdate(models.Patient{
		ID:          11,
		Name:        "Asha",
		DateOfBirth: "1990-01-01",
		Gender:      "Female",
		Mobile:      "+91 98765 00000",
		Email:       &email,
		Status:      models.StatusInConsultation,
	}))

	for _, conn := range []*websocket.Conn{a, b} {
		var ev models.Event
		require.NoError(t, json.Unmarshal([]byte(readText(t, conn)), &ev))
		assert.Equal(t, models.EventStatusUpdate, ev.Type)
		assert.Equal(t, models.PatientID(11), ev.Data.ID)
		assert.Equal(t, models.StatusInConsultation, ev.Data.Status)
		assert.Equal(t, "asha@example.com", *ev.Data.Email)
	}
}

func TestWebSocketPingAndMalformedFrames(t *testing.T) {
	pushHub := hub.New()
	srv := newPushServer(t, pushHub)
	conn := dialPush(t, srv)
	waitForConnections(t, pushHub, 1)

	require.NoError(t, websocket.Message.Send(conn, "definitely not json"))
	require.NoError(t, websocket.Message.Send(conn, `{"type":"subscribe","room":"all"}`))
	require.NoError(t, websocket.Message.Send(conn, `{"type":"ping"}`))

	assert.JSONEq(t, `{"type":"pong"}`, readText(t, conn))
	assert.Equal(t, 1, pushHub.Len())
}

func TestWebSocketOversizedFrameKeepsConnection(t *testing.T) {
	pushHub := hub.New()
	srv := newPushServer(t, pushHub)
	conn := dialPush(t, srv)
	waitForConnections(t, pushHub, 1)

	require.NoError(t, websocket.Message.Send(conn, strings.Repeat("x", maxInboundFrameBytes+1)))
	require.NoError(t, websocket.Message.Send(conn, `{"type":"ping"}`))

	assert.JSONEq(t, `{"type":"pong"}`, readText(t, conn))
}

func TestWebSocketDisconnectUnregisters(t *testing.T) {
	pushHub := hub.New()
	srv := newPushServer(t, pushHub)
	conn := dialPush(t, srv)
	waitForConnections(t, pushHub, 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, pushHub, 0)

	assert.NotPanics(t, func() {
		pushHub.Broadcast(context.Background(), models.NewStatusUpdate(models.Patient{ID: 1, Status: models.StatusCompleted}))
	})
}

func TestWebSocketCapacity(t *testing.T) {
	pushHub := hub.New(hub.WithMaxConnections(1))
	srv := newPushServer(t, pushHub)
	dialPush(t, srv)
	waitForConnections(t, pushHub, 1)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, err := websocket.Dial(wsURL, "", srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, pushHub.Len())
}
