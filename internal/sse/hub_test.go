package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/event"
)

var fixedNow = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt, ok := <-c.EventChannel:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastRespectsFilter(t *testing.T) {
	h := NewHub(fixedNow)
	h.Start()
	defer h.Stop()

	all := h.Register(nil)
	sold := h.Register([]string{string(event.CreatureSold)})
	waitForClients(t, h, 2)

	h.Broadcast(string(event.CreatureLiked), map[string]int{"creature_id": 1})
	h.Broadcast(string(event.CreatureSold), map[string]int{"creature_id": 1})

	assert.Equal(t, string(event.CreatureLiked), receive(t, all).Type)
	assert.Equal(t, string(event.CreatureSold), receive(t, all).Type)

	got := receive(t, sold)
	assert.Equal(t, string(event.CreatureSold), got.Type)
	assert.Equal(t, fixedNow().Unix(), got.Timestamp)
	assert.Empty(t, sold.EventChannel)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	h := NewHub(nil)
	h.Start()
	defer h.Stop()

	c := h.Register(nil)
	waitForClients(t, h, 1)

	h.Unregister(c.ID)
	waitForClients(t, h, 0)
	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestHub_StopClosesClientsAndRejectsNew(t *testing.T) {
	h := NewHub(nil)
	h.Start()

	c := h.Register(nil)
	waitForClients(t, h, 1)

	h.Stop()
	h.Stop()

	_, ok := <-c.EventChannel
	assert.False(t, ok)
	assert.Nil(t, h.Register(nil))
	assert.NotPanics(t, func() { h.Unregister(c.ID) })
}

func TestHub_RegisterAfterStopAlwaysRejected(t *testing.T) {
	h := NewHub(nil)
	h.Start()
	h.Stop()

	for i := 0; i < 100; i++ {
		require.Nil(t, h.Register(nil), "register %d after stop", i)
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_RegisterRacingStopNeverLeaksOpenClient(t *testing.T) {
	h := NewHub(nil)
	h.Start()

	clients := make(chan *Client, 64)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clients <- h.Register(nil)
		}()
	}
	h.Stop()
	wg.Wait()
	close(clients)

	// Any client that got in before Stop must have its channel closed
	for c := range clients {
		if c == nil {
			continue
		}
		select {
		case _, ok := <-c.EventChannel:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatalf("client %s left open after stop", c.ID)
		}
	}
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "abc", Type: "creature.sold", Timestamp: 10, Payload: 5})
	require.NoError(t, err)

	lines := strings.Split(string(msg), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id: abc", lines[0])
	assert.Equal(t, "event: creature.sold", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "data: "))
	assert.Equal(t, "", lines[3])
}

func TestSubscriber_ForwardsBusEvents(t *testing.T) {
	h := NewHub(fixedNow)
	h.Start()
	defer h.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(h, bus).Subscribe()

	c := h.Register(nil)
	waitForClients(t, h, 1)

	require.NoError(t, bus.Publish(context.Background(), event.NewCreaturesDespawnedEvent(3, fixedNow())))

	got := receive(t, c)
	assert.Equal(t, string(event.CreaturesDespawned), got.Type)
	payload, ok := got.Payload.(event.CreaturesDespawnedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, int64(3), payload.Count)
}

func TestHandler_StreamsEvents(t *testing.T) {
	h := NewHub(fixedNow)
	h.Start()
	defer h.Stop()

	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types="+string(event.CreatureSold), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() Event {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				var evt Event
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &evt))
				return evt
			}
		}
	}

	assert.Equal(t, EventTypeConnected, readEvent().Type)
	waitForClients(t, h, 1)

	h.Broadcast(string(event.CreatureLiked), nil)
	h.Broadcast(string(event.CreatureSold), map[string]int64{"amount": 400})

	got := readEvent()
	assert.Equal(t, string(event.CreatureSold), got.Type)
}

func TestHandler_HubStopped(t *testing.T) {
	h := NewHub(nil)
	h.Start()
	h.Stop()

	rec := httptest.NewRecorder()
	Handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
