package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mldjordje/bubanjskioganj/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfig_Configured(t *testing.T) {
	handler := NewSiteConfigHandler(config.SupabaseConfig{
		URL:     "https://abc.supabase.co",
		AnonKey: "anon-123",
	}, "test")

	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/supabase-config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "https://abc.supabase.co", payload["url"])
	assert.Equal(t, "anon-123", payload["anonKey"])
}

func TestSiteConfig_FailsClosedWhenUnset(t *testing.T) {
	tests := []struct {
		name     string
		supabase config.SupabaseConfig
	}{
		{name: "nothing set", supabase: config.SupabaseConfig{}},
		{name: "missing key", supabase: config.SupabaseConfig{URL: "https://abc.supabase.co"}},
		{name: "missing url", supabase: config.SupabaseConfig{AnonKey: "anon-123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSiteConfigHandler(tt.supabase, "test")

			rec := httptest.NewRecorder()
			handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/supabase-config", nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
