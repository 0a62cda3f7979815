package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name   string
		health HealthFunc
		code   int
		status string
	}{
		{"default", nil, http.StatusOK, "up"},
		{"up", func(context.Context) HealthStatus {
			return HealthStatus{Status: "up", Components: map[string]string{"parser": "ok"}}
		}, http.StatusOK, "up"},
		{"degraded", func(context.Context) HealthStatus {
			return HealthStatus{Status: "degraded"}
		}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewServer("", tt.health).Handler())
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/health")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			var got HealthStatus
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	FilesLinted.WithLabelValues("ok").Inc()

	srv := httptest.NewServer(NewServer("", nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `skiplint_files_total{outcome="ok"}`)
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil)
	require.NoError(t, s.Start(context.Background()))
	require.True(t, strings.HasPrefix(s.Addr(), "127.0.0.1:"))

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestSetupTracing_Disabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "  ")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
