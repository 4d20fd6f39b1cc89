package advisory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/wealthwise/advisor/internal/testing"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient("http://advisor.internal:9000/", time.Second, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://advisor.internal:9000", client.baseURL)

	_, err = NewClient("", time.Second, zerolog.Nop())
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindConfiguration, ae.Kind)

	_, err = NewClient("   ", time.Second, zerolog.Nop())
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestCall_Success(t *testing.T) {
	profile := fixtures.NewProfileFixture()

	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/generate-advice", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		// Check request body
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, profile.ID, req["user_id"])
		assert.Equal(t, "Moderate", req["risk_tolerance"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(fixtures.AdviceWireJSON))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	wireReq := NewMapper(zerolog.Nop()).ToWireRequest(profile, RequestOptions{})
	body, err := client.Call(context.Background(), wireReq)
	require.NoError(t, err)
	assert.JSONEq(t, fixtures.AdviceWireJSON, string(body))
}

func TestCall_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"risk_tolerance must be one of conservative, moderate, aggressive"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), RequestWire{})
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindClient, ae.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	assert.Contains(t, ae.Body, "risk_tolerance")
}

func TestCall_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), RequestWire{})
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindUpstream, ae.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ae.Status)
	assert.Contains(t, ae.Body, "service overloaded")
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), RequestWire{})
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindTransport, ae.Kind)
	assert.Zero(t, ae.Status)
}

func TestCall_DeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 10*time.Second, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err = client.Call(ctx, RequestWire{})
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindCancelled, ae.Kind)
}

func TestCall_ContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request body must be drained before blocking: the server
		// only notices the client going away once it reads the
		// connection, and Close would otherwise wait on this handler
		// forever.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 10*time.Second, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = client.Call(ctx, RequestWire{})
	assert.Equal(t, KindCancelled, KindOf(err))
}

func TestCall_ClientTimeout(t *testing.T) {
	// The client's own Timeout must classify the same way as a caller
	// deadline: the call was abandoned, not the network broken.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), RequestWire{})
	assert.Equal(t, KindCancelled, KindOf(err))
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	err = client.HealthCheck(context.Background())
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindUpstream, ae.Kind)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
}
