package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Handle_Memoizes(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(RemoteConfig{URL: "https://abc.supabase.co", AnonKey: "anon"})
	}))
	defer server.Close()

	provider := NewProvider(server.URL, WithProviderHTTPClient(server.Client()))

	first, err := provider.Handle(context.Background())
	require.NoError(t, err)
	second, err := provider.Handle(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestProvider_Handle_RetriesAfterFailure(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "not configured", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(RemoteConfig{URL: "https://abc.supabase.co", AnonKey: "anon"})
	}))
	defer server.Close()

	provider := NewProvider(server.URL, WithProviderHTTPClient(server.Client()))

	_, err := provider.Handle(context.Background())
	require.Error(t, err)

	client, err := provider.Handle(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient(RemoteConfig{URL: "https://abc.supabase.co/", AnonKey: "anon"})
	assert.Equal(t, "https://abc.supabase.co", client.baseURL)
}
