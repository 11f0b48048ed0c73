package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libilabs/console/internal/event"
)

// sseHandler serves a fixed script of wire events and then holds the
// connection open until the client goes away, so the transport does not
// treat end-of-script as a disconnect.
func sseHandler(t *testing.T, conns *atomic.Int64, script []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		conns.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		fl, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, chunk := range script {
			fmt.Fprint(w, chunk)
			fl.Flush()
		}
		<-r.Context().Done()
	}
}

func waitEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}

func TestConnect_DeliversTypedEvents(t *testing.T) {
	var conns atomic.Int64
	script := []string{
		"event: connected\ndata: {\"merchantId\":\"M1\"}\n\n",
		"event: order_created\ndata: {\"id\":\"A\",\"status\":\"PENDING\"}\n\n",
	}
	srv := httptest.NewServer(sseHandler(t, &conns, script))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	defer c.Disconnect()
	require.NoError(t, c.Connect(context.Background(), "M1"))

	ev := waitEvent(t, c.Events())
	assert.Equal(t, event.KindConnected, ev.Kind)

	ev = waitEvent(t, c.Events())
	require.Equal(t, event.KindOrderCreated, ev.Kind)
	require.NotNil(t, ev.Order)
	assert.Equal(t, "A", ev.Order.ID)
	assert.Equal(t, StateOpen, c.State())
	assert.Equal(t, "M1", c.MerchantID())
}

func TestConnect_MalformedEventDroppedStreamStaysOpen(t *testing.T) {
	var conns atomic.Int64
	script := []string{
		"event: order_created\ndata: {not json\n\n",
		"event: order_created\ndata: {\"status\":\"PENDING\"}\n\n",
		"event: order_created\ndata: {\"id\":\"B\",\"status\":\"PENDING\"}\n\n",
	}
	srv := httptest.NewServer(sseHandler(t, &conns, script))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	defer c.Disconnect()
	require.NoError(t, c.Connect(context.Background(), "M1"))

	// The malformed payload and the one missing an id are both dropped;
	// the stream survives and delivers the next good event.
	ev := waitEvent(t, c.Events())
	require.Equal(t, event.KindOrderCreated, ev.Kind)
	assert.Equal(t, "B", ev.Order.ID)
	assert.Equal(t, StateOpen, c.State())
}

func TestConnect_SameMerchantIsNoOp(t *testing.T) {
	var conns atomic.Int64
	script := []string{"event: connected\ndata: {}\n\n"}
	srv := httptest.NewServer(sseHandler(t, &conns, script))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	defer c.Disconnect()
	require.NoError(t, c.Connect(context.Background(), "M1"))
	waitEvent(t, c.Events())
	require.Eventually(t, func() bool { return c.State() == StateOpen },
		5*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Connect(context.Background(), "M1"))
	require.NoError(t, c.Connect(context.Background(), "M1"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), conns.Load())
	assert.Equal(t, StateOpen, c.State())
}

func TestConnect_NewMerchantReplacesSubscription(t *testing.T) {
	var conns atomic.Int64
	merchants := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conns.Add(1)
		merchants <- r.URL.Path
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "event: connected\ndata: {}\n\n")
		fl.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	defer c.Disconnect()
	require.NoError(t, c.Connect(context.Background(), "M1"))
	waitEvent(t, c.Events())
	assert.Equal(t, "/merchants/M1/stream", <-merchants)

	require.NoError(t, c.Connect(context.Background(), "M2"))
	waitEvent(t, c.Events())
	assert.Equal(t, "/merchants/M2/stream", <-merchants)
	assert.Equal(t, "M2", c.MerchantID())
	assert.Equal(t, int64(2), conns.Load())
}

func TestConnect_TokenOnQueryString(t *testing.T) {
	tokens := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens <- r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "event: connected\ndata: {}\n\n")
		fl.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cret+token")
	defer c.Disconnect()
	require.NoError(t, c.Connect(context.Background(), "M1"))
	waitEvent(t, c.Events())

	select {
	case tok := <-tokens:
		assert.Equal(t, "s3cret+token", tok)
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the request")
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	var conns atomic.Int64
	script := []string{"event: connected\ndata: {}\n\n"}
	srv := httptest.NewServer(sseHandler(t, &conns, script))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	require.NoError(t, c.Connect(context.Background(), "M1"))
	waitEvent(t, c.Events())

	c.Disconnect()
	c.Disconnect()
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, "", c.MerchantID())
}

func TestConnect_EmptyMerchantRejected(t *testing.T) {
	c := New("http://localhost:1", "tok")
	require.Error(t, c.Connect(context.Background(), ""))
	assert.Equal(t, StateIdle, c.State())
}
