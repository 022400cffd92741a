package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBackend serves both the config endpoint and the table API from one
// fake server, the way the real deployment does.
func testBackend(t *testing.T, table http.HandlerFunc) *supabase.Provider {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/supabase-config", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(supabase.RemoteConfig{URL: server.URL, AnonKey: "anon"})
	})
	mux.HandleFunc("/rest/v1/", table)
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return supabase.NewProvider(server.URL+"/api/supabase-config",
		supabase.WithProviderHTTPClient(server.Client()))
}

func fixedClock(value string) func() time.Time {
	parsed, _ := time.Parse(DateFormat, value)
	return func() time.Time { return parsed }
}

func TestListRecent_NewestFirst(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/events", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "event_date.desc", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Empty(t, q.Get("event_date"))

		_ = json.NewEncoder(w).Encode([]Event{
			{ID: "2", Title: "Novija svirka", EventDate: "2025-07-01"},
			{ID: "1", Title: "Starija svirka", EventDate: "2025-06-01"},
		})
	})

	repo := NewRepository(backend, DefaultTable)
	listed, err := repo.ListRecent(context.Background(), 5, ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Novija svirka", listed[0].Title)
}

func TestListRecent_UpcomingOnly(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gte.2025-06-15", q.Get("event_date"))
		assert.Equal(t, "event_date.asc", q.Get("order"))
		assert.Equal(t, "3", q.Get("limit"))

		_ = json.NewEncoder(w).Encode([]Event{})
	})

	repo := NewRepository(backend, DefaultTable, WithClock(fixedClock("2025-06-15")))
	listed, err := repo.ListRecent(context.Background(), 3, ListOptions{UpcomingOnly: true})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreate_InsertsSingleRow(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		body, _ := io.ReadAll(r.Body)
		var rows []Fields
		require.NoError(t, json.Unmarshal(body, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Svirka", rows[0].Title)
		assert.Equal(t, "https://cdn.example/poster.jpg", rows[0].ImageURL)
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewRepository(backend, DefaultTable)
	err := repo.Create(context.Background(), Fields{
		Title:     "Svirka",
		Performer: "Trio X",
		EventDate: "2025-06-20",
		StartTime: "20:00",
		ImageURL:  "https://cdn.example/poster.jpg",
	})
	require.NoError(t, err)
}

func TestUpdate_TargetsRowByID(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.42", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	repo := NewRepository(backend, DefaultTable)
	err := repo.Update(context.Background(), "42", Fields{Title: "Izmena"})
	require.NoError(t, err)
}

func TestDelete_AbsentRowStillSucceeds(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	repo := NewRepository(backend, DefaultTable)
	require.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestRepository_WrapsBackendRejections(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	repo := NewRepository(backend, DefaultTable)
	_, err := repo.ListRecent(context.Background(), 5, ListOptions{})

	var repoErr *RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "list", repoErr.Op)

	var reqErr *supabase.RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestRepository_ConfigFailureSurfacesAsRepositoryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not configured", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	backend := supabase.NewProvider(server.URL, supabase.WithProviderHTTPClient(server.Client()))
	repo := NewRepository(backend, DefaultTable)

	_, err := repo.ListRecent(context.Background(), 5, ListOptions{})
	var cfgErr *supabase.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
