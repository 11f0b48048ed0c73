package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libilabs/console/internal/model"
)

// TestWatch_EndToEnd seeds from REST, streams three events, and checks the
// reconciled lines: the order update keeps the status change visible and a
// proof upload flips the payment marker without touching the items.
func TestWatch_EndToEnd(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /merchants/M1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Merchant{ID: "M1", Name: "Taquería El Pastor"})
	})
	mux.HandleFunc("GET /merchants/M1/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Order{})
	})
	mux.HandleFunc("GET /merchants/M1/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Session{})
	})
	mux.HandleFunc("GET /merchants/M1/stream", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-abc", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)

		events := []string{
			"event: connected\ndata: {}\n\n",
			`event: order_created` + "\ndata: " +
				`{"id":"A","customerPhone":"+5215512345678","status":"PENDING","total":125.5,` +
				`"items":[{"id":"i1","name":"Tacos al pastor","quantity":3,"unitPrice":25.5}]}` + "\n\n",
			"event: order_updated\ndata: {\"id\":\"A\",\"status\":\"READY\"}\n\n",
			`event: payment_proof_uploaded` + "\ndata: " +
				`{"orderId":"A","paymentProofUrl":"https://cdn.libi.app/p.jpg"}` + "\n\n",
		}
		for _, ev := range events {
			fmt.Fprint(w, ev)
			fl.Flush()
		}
		<-r.Context().Done()
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"watch", "M1", "--no-sound"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	text := out.String()
	assert.Contains(t, text, "Watching Taquería El Pastor (M1)")
	assert.Contains(t, text, "stream connected")
	assert.Contains(t, text, "order_created")
	assert.Contains(t, text, "New order")
	// The update merged onto the created order: status moved to READY.
	assert.Contains(t, text, "READY")
	// The proof upload put the order back into awaiting verification.
	assert.Contains(t, text, "[proof uploaded]")
}

func TestWatch_JSONLines(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /merchants/M1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Merchant{ID: "M1", Name: "Taquería El Pastor"})
	})
	mux.HandleFunc("GET /merchants/M1/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Order{})
	})
	mux.HandleFunc("GET /merchants/M1/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Session{})
	})
	mux.HandleFunc("GET /merchants/M1/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "event: session_created\ndata: {\"id\":\"S1\",\"status\":\"NEW\",\"isManualMode\":false}\n\n")
		fl.Flush()
		<-r.Context().Done()
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--format", "json", "watch", "M1", "--no-sound"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	var sawSession bool
	for _, line := range bytes.Split(out.Bytes(), []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var wl watchLine
		require.NoError(t, json.Unmarshal(line, &wl), "line: %s", line)
		if wl.SessionID == "S1" {
			sawSession = true
			assert.True(t, wl.Created)
		}
	}
	assert.True(t, sawSession, "expected a session_created line")
}

func TestWatch_RequiresLogin(t *testing.T) {
	testEnv(t, fakePlatform(t))

	_, err := execute(t, "watch", "M1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
