package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"clinicdesk/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	t.Run("prefers first X-Forwarded-For entry", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		assert.Equal(t, "10.0.0.1", ClientIPFromRequest(r))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Real-IP", " 10.0.0.9 ")
		assert.Equal(t, "10.0.0.9", ClientIPFromRequest(r))
	})

	t.Run("strips port from RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.168.1.4:5123"
		assert.Equal(t, "192.168.1.4", ClientIPFromRequest(r))
	})

	t.Run("strips brackets from IPv6 RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "[::1]:5123"
		assert.Equal(t, "::1", ClientIPFromRequest(r))
	})
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	r.Header.Set("User-Agent", "Mozilla/5.0")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "127.0.0.1", gotIP)
	assert.Equal(t, "Mozilla/5.0", gotUA)
}
