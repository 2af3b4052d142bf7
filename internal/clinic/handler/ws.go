package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/mssola/useragent"
	"golang.org/x/net/websocket"

	dErrors "clinicdesk/pkg/domain-errors"
	"clinicdesk/pkg/platform/httputil"
	"clinicdesk/pkg/requestcontext"
)

// maxInboundFrameBytes bounds a single client frame. Clients only ever send
// pings, so anything larger is noise.
const maxInboundFrameBytes = 4 << 10

// handleWebSocket upgrades to the push channel. Capacity is checked before the
// upgrade so a refused client gets a plain 503.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.hub.AtCapacity() {
		h.logger.WarnContext(ctx, "push connection refused at capacity",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "too many connections"))
		return
	}

	srv := websocket.Server{
		// any origin; the push channel carries no credentials
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   h.serveWebSocket,
	}
	srv.ServeHTTP(w, r)
}

func (h *Handler) serveWebSocket(conn *websocket.Conn) {
	ctx := conn.Request().Context()
	conn.MaxPayloadBytes = maxInboundFrameBytes

	client, err := h.hub.Register(conn)
	if err != nil {
		h.logger.WarnContext(ctx, "push connection refused",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		_ = conn.Close()
		return
	}
	defer h.hub.Unregister(client)

	ua := useragent.New(requestcontext.UserAgent(ctx))
	browser, version := ua.Browser()
	h.logger.InfoContext(ctx, "push connection opened",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", client.ID(),
		"client_ip", requestcontext.ClientIP(ctx),
		"browser", browser,
		"browser_version", version,
		"os", ua.OS(),
		"mobile", ua.Mobile(),
	)

	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			if errors.Is(err, websocket.ErrFrameTooLarge) {
				h.hub.HandleInbound(client, nil)
				continue
			}
			if !errors.Is(err, io.EOF) {
				h.logger.DebugContext(ctx, "push connection read failed",
					"client_id", client.ID(),
					"error", err,
				)
			}
			break
		}
		h.hub.HandleInbound(client, raw)
	}

	h.logger.InfoContext(ctx, "push connection closed",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", client.ID(),
	)
}
