package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libilabs/console/internal/model"
)

func TestLogin_InstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@libi.app", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		json.NewEncoder(w).Encode(LoginResult{
			Token: "tok-abc",
			User:  model.User{ID: "u1", Email: "ana@libi.app", Role: model.RoleMerchantAdmin},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Login(context.Background(), "ana@libi.app", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", res.Token)
	assert.Equal(t, "tok-abc", c.Token())
	assert.Equal(t, model.RoleMerchantAdmin, res.User.Role)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(model.User{ID: "u1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-abc")
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestClient_UnauthorizedSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"token expired"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "token expired", se.Message)
}

func TestClient_StatusErrorToleratesPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Orders(context.Background(), "M1")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, "upstream down", se.Message)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestSetOrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/orders/A/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "READY", body["status"])

		json.NewEncoder(w).Encode(model.Order{ID: "A", Status: model.OrderReady})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	o, err := c.SetOrderStatus(context.Background(), "A", model.OrderReady)
	require.NoError(t, err)
	assert.Equal(t, model.OrderReady, o.Status)
}

func TestSetOrderStatus_RejectsUnknownStatusLocally(t *testing.T) {
	c := NewClient("http://localhost:1")
	_, err := c.SetOrderStatus(context.Background(), "A", "SHIPPED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}

func TestVerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchants/M1/orders/A/verify-payment", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["verified"])

		json.NewEncoder(w).Encode(model.Order{ID: "A", PaymentVerified: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	o, err := c.VerifyPayment(context.Background(), "M1", "A", true)
	require.NoError(t, err)
	assert.True(t, o.PaymentVerified)
}

func TestSessionPauseResume(t *testing.T) {
	var paths []string
	manual := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(model.Session{ID: "S1", IsManualMode: &manual})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	s, err := c.PauseSession(context.Background(), "M1", "S1")
	require.NoError(t, err)
	assert.True(t, s.ManualMode())

	_, err = c.ResumeSession(context.Background(), "M1", "S1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/merchants/M1/sessions/S1/pause",
		"/merchants/M1/sessions/S1/resume",
	}, paths)
}

func TestUploadMenuSource_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchants/M1/menu-import/uploads", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "menu.jpg", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(content))

		json.NewEncoder(w).Encode(model.Upload{ID: "up-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	up, err := c.UploadMenuSource(context.Background(), "M1", "/tmp/menu.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "up-1", up.ID)
}

func TestProcessMenuImport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchants/M1/menu-import/process", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"up-1", "up-2"}, body["uploadIds"])

		json.NewEncoder(w).Encode(model.MenuImportResult{
			Preview:  &model.Menu{Categories: []model.MenuCategory{{Name: "Tacos"}}},
			Warnings: []string{"price missing for 1 item"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.ProcessMenuImport(context.Background(), "M1", []string{"up-1", "up-2"})
	require.NoError(t, err)
	require.NotNil(t, res.Preview)
	assert.Len(t, res.Warnings, 1)
}

func TestDeletePaymentAccount_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/merchants/M1/payment-accounts/pa-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.DeletePaymentAccount(context.Background(), "M1", "pa-1"))
}

func TestErrorsDoNotWrapUnauthorizedForOtherCodes(t *testing.T) {
	err := &StatusError{Status: http.StatusForbidden}
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
