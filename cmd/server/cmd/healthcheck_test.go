package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck_Healthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(server.Close)

	healthcheckURL = server.URL + "/healthz"
	t.Cleanup(func() { healthcheckURL = "" })

	err := runHealthcheck(healthcheckCmd, nil)
	assert.NoError(t, err)
}

func TestHealthcheck_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	healthcheckURL = server.URL + "/healthz"
	t.Cleanup(func() { healthcheckURL = "" })

	err := runHealthcheck(healthcheckCmd, nil)
	assert.Error(t, err)
}

func TestHealthcheck_Unreachable(t *testing.T) {
	healthcheckURL = "http://127.0.0.1:0/healthz"
	t.Cleanup(func() { healthcheckURL = "" })

	err := runHealthcheck(healthcheckCmd, nil)
	assert.Error(t, err)
}
