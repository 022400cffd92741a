package assets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"poster.jpg", "poster.jpg"},
		{"Poster.JPG", "poster.jpg"},
		{"moj plakat (1).png", "moj-plakat-1-.png"},
		{"šarena_slika.jpg", "-arena-slika.jpg"},
		{"a  b.jpg", "a-b.jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFileName(tt.input), "input %q", tt.input)
	}
}

func testBackend(t *testing.T, storage http.HandlerFunc) *supabase.Provider {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/supabase-config", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(supabase.RemoteConfig{URL: server.URL, AnonKey: "anon"})
	})
	mux.HandleFunc("/storage/v1/", storage)
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return supabase.NewProvider(server.URL+"/api/supabase-config",
		supabase.WithProviderHTTPClient(server.Client()))
}

func TestUpload_FreshTimestampedPath(t *testing.T) {
	at := time.UnixMilli(1748772000000)

	var gotPath string
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "3600", r.Header.Get("Cache-Control"))
		assert.Equal(t, "false", r.Header.Get("x-upsert"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "jpeg bytes", string(body))
		w.WriteHeader(http.StatusOK)
	})

	uploader := NewUploader(backend, DefaultBucket, WithClock(func() time.Time { return at }))
	url, err := uploader.Upload(context.Background(), "Moj Plakat.JPG", strings.NewReader("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/event-images/events/1748772000000-moj-plakat.jpg", gotPath)
	assert.True(t, strings.HasSuffix(url, "/storage/v1/object/public/event-images/events/1748772000000-moj-plakat.jpg"))
}

func TestUpload_RejectionPropagates(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"The resource already exists"}`, http.StatusConflict)
	})

	uploader := NewUploader(backend, DefaultBucket)
	_, err := uploader.Upload(context.Background(), "poster.jpg", strings.NewReader("x"), "image/jpeg")

	var storageErr *supabase.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, http.StatusConflict, storageErr.Status)
}

func TestUpload_ConfigFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not configured", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	backend := supabase.NewProvider(server.URL, supabase.WithProviderHTTPClient(server.Client()))
	uploader := NewUploader(backend, DefaultBucket)

	_, err := uploader.Upload(context.Background(), "poster.jpg", strings.NewReader("x"), "image/jpeg")
	var cfgErr *supabase.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
