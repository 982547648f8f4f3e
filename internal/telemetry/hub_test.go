package telemetry

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sseMessage struct {
	ID    string
	Event string
	Data  string
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Subscribe(r.Context(), w, r)
	}))
	t.Cleanup(func() {
		hub.Stop()
		srv.Close()
	})
	return srv
}

func connect(t *testing.T, ctx context.Context, url, lastEventID string) (*bufio.Reader, func()) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, "text/event-stream; charset=utf-8", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), func() { _ = resp.Body.Close() }
}

func readMessage(t *testing.T, r *bufio.Reader) sseMessage {
	t.Helper()
	var msg sseMessage
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return msg
		}
		key, value, _ := strings.Cut(line, ": ")
		switch key {
		case "id":
			msg.ID = value
		case "event":
			msg.Event = value
		case "data":
			msg.Data = value
		}
	}
}

func TestSubscribeReceivesReadyAndPublished(t *testing.T) {
	hub := NewHub(Options{
		HeartbeatInterval: time.Hour,
		Snapshot:          func() map[string]any { return map[string]any{"state": 2} },
	})
	srv := newTestServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader, closeBody := connect(t, ctx, srv.URL, "")
	defer closeBody()

	ready := readMessage(t, reader)
	assert.Equal(t, EventReady, ready.Event)
	assert.JSONEq(t, `{"snapshot":{"state":2}}`, ready.Data)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(Event{Type: "plugin_state", Data: map[string]any{"state": 1}})

	msg := readMessage(t, reader)
	assert.Equal(t, "1", msg.ID)
	assert.Equal(t, "plugin_state", msg.Event)
	assert.JSONEq(t, `{"state":1}`, msg.Data)
}

func TestSubscribeReplaysAfterLastEventID(t *testing.T) {
	hub := NewHub(Options{HeartbeatInterval: time.Hour})
	srv := newTestServer(t, hub)

	for i := 0; i < 3; i++ {
		hub.Publish(Event{Type: "radio", Data: map[string]any{"n": i}})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader, closeBody := connect(t, ctx, srv.URL, "1")
	defer closeBody()

	assert.Equal(t, EventReady, readMessage(t, reader).Event)
	assert.Equal(t, "2", readMessage(t, reader).ID)
	assert.Equal(t, "3", readMessage(t, reader).ID)
}

func TestHeartbeat(t *testing.T) {
	hub := NewHub(Options{HeartbeatInterval: 10 * time.Millisecond})
	srv := newTestServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader, closeBody := connect(t, ctx, srv.URL, "")
	defer closeBody()

	readMessage(t, reader)
	assert.Equal(t, EventHeartbeat, readMessage(t, reader).Event)
	assert.Zero(t, hub.buffer.Size(), "heartbeats are not buffered for replay")
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub(Options{HeartbeatInterval: time.Hour})
	srv := newTestServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	reader, closeBody := connect(t, ctx, srv.URL, "")
	readMessage(t, reader)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	closeBody()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	hub := NewHub(Options{})
	hub.Stop()
	hub.Stop()
	hub.Publish(Event{Type: "late"})
}

func TestEventBuffer(t *testing.T) {
	b := NewEventBuffer(2)
	for id := int64(1); id <= 3; id++ {
		b.AddEvent(Event{ID: id, Type: "x"})
	}

	assert.Equal(t, 2, b.Size())
	events := b.GetEventsAfter(0)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, int64(3), events[1].ID)
	assert.Empty(t, b.GetEventsAfter(3))
}
