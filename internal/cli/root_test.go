package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libilabs/console/internal/model"
)

// execute runs the CLI with args and captures stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// testEnv points the CLI at a fake API server and an isolated state file.
func testEnv(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("LIBI_API_URL", srv.URL)
	t.Setenv("LIBI_DATABASE", filepath.Join(t.TempDir(), "state.db"))
	return srv
}

// fakePlatform is a minimal API double covering the auth endpoints plus
// whatever extra routes a test registers.
func fakePlatform(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-abc",
			"user": model.User{
				ID: "u1", Name: "Ana", Email: body["email"],
				Role: model.RoleMerchantAdmin, MerchantID: "M1",
			},
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.User{
			ID: "u1", Name: "Ana", Email: "ana@libi.app",
			Role: model.RoleMerchantAdmin, MerchantID: "M1",
		})
	})
	return mux
}

func TestRoot_InvalidFormatRejected(t *testing.T) {
	_, err := execute(t, "--format", "xml", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoginThenWhoami(t *testing.T) {
	testEnv(t, fakePlatform(t))

	out, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ana@libi.app")

	out, err = execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@libi.app")
	assert.Contains(t, out, "merchant=M1")
}

func TestLogin_BadPassword(t *testing.T) {
	testEnv(t, fakePlatform(t))

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCommandsRequireLogin(t *testing.T) {
	testEnv(t, fakePlatform(t))

	_, err := execute(t, "orders", "list", "M1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not logged in")
}

func TestExpiredSessionIsCleared(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /merchants/M1/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	_, err = execute(t, "orders", "list", "M1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "session expired")

	// The dead token is gone; the next command fails fast, locally.
	_, err = execute(t, "orders", "list", "M1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLogout(t *testing.T) {
	testEnv(t, fakePlatform(t))

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	out, err := execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = execute(t, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestOrdersList_TextAndJSON(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /merchants/M1/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Order{
			{ID: "A", Status: model.OrderPending, CustomerPhone: "+5215512345678", Total: 125.5},
			{ID: "B", Status: model.OrderReady, CustomerPhone: "+5215598765432", Total: 80,
				AwaitingPaymentProof: true, PaymentProofURL: "https://cdn.libi.app/p.jpg"},
		})
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	out, err := execute(t, "orders", "list", "M1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 order(s)")
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "[proof uploaded]")

	out, err = execute(t, "--format", "json", "orders", "list", "M1")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	// Search filtering folds case and accents.
	out, err = execute(t, "orders", "list", "M1", "--search", "5598765432")
	require.NoError(t, err)
	assert.Contains(t, out, "1 order(s)")
	assert.NotContains(t, out, "5512345678")
}

func TestOrdersAdvance_DefaultsToNextStatus(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /orders/A", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Order{ID: "A", Status: model.OrderPending})
	})
	mux.HandleFunc("PATCH /orders/A/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "IN_PREPARATION", body["status"])
		json.NewEncoder(w).Encode(model.Order{ID: "A", Status: model.OrderInPreparation})
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	out, err := execute(t, "orders", "advance", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Order A → IN_PREPARATION")
}

func TestOrdersAdvance_TerminalOrderFails(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /orders/A", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Order{ID: "A", Status: model.OrderDelivered})
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	_, err = execute(t, "orders", "advance", "A")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "cannot advance")
}

func TestMenuValidate(t *testing.T) {
	testEnv(t, fakePlatform(t))
	dir := t.TempDir()

	good := filepath.Join(dir, "menu.yaml")
	writeFile(t, good, `
categories:
  - name: Tacos
    items:
      - name: Pastor
        price: 25.5
`)
	out, err := execute(t, "menu", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 1 categories, 1 items")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, `
categories:
  - name: ""
    items:
      - name: Pastor
        price: -1
`)
	_, err = execute(t, "menu", "validate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "menu", "validate", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSessionsPause(t *testing.T) {
	manual := true
	mux := fakePlatform(t)
	mux.HandleFunc("POST /merchants/M1/sessions/S1/pause", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Session{
			ID: "S1", Status: model.SessionCollectingItems, IsManualMode: &manual,
		})
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	out, err := execute(t, "sessions", "pause", "S1", "--merchant", "M1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session S1 paused")
}

func TestStats(t *testing.T) {
	mux := fakePlatform(t)
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.StatsSummary{
			Merchants: 4, Orders: 120, WhatsAppLines: 5,
			OrdersByStatus: map[string]int{"PENDING": 7, "DELIVERED": 100},
		})
	})
	testEnv(t, mux)

	_, err := execute(t, "login", "--email", "ana@libi.app", "--password", "hunter2")
	require.NoError(t, err)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "merchants: 4")
	assert.Contains(t, out, "PENDING")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
