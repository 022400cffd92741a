package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RemoteConfig is the payload served by the deployment's config endpoint.
type RemoteConfig struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// FetchConfig retrieves the backend endpoint and public key from the config
// endpoint. Config is static per deployment, so this is a single attempt with
// no retry; any failure means the deployment is missing its SUPABASE_URL and
// SUPABASE_ANON_KEY variables.
func FetchConfig(ctx context.Context, endpoint string, client *http.Client) (RemoteConfig, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RemoteConfig{}, &ConfigError{Endpoint: endpoint, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return RemoteConfig{}, &ConfigError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RemoteConfig{}, &ConfigError{Endpoint: endpoint, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var cfg RemoteConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return RemoteConfig{}, &ConfigError{Endpoint: endpoint, Err: fmt.Errorf("decode config: %w", err)}
	}
	if cfg.URL == "" || cfg.AnonKey == "" {
		return RemoteConfig{}, &ConfigError{Endpoint: endpoint, Err: fmt.Errorf("config payload missing url or anonKey")}
	}
	return cfg, nil
}
