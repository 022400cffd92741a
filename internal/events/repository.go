package events

import (
	"context"
	"fmt"
	"time"

	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/rs/zerolog"
)

// DefaultTable is the collection holding event announcements.
const DefaultTable = "events"

// DateFormat is the calendar date layout used by event_date.
const DateFormat = "2006-01-02"

const columns = "id, title, description, performer, event_date, start_time, image_url"

// Event is a persisted announcement. The id is assigned by the remote store
// on creation and never changes.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Performer   string `json:"performer"`
	EventDate   string `json:"event_date"`
	StartTime   string `json:"start_time"`
	ImageURL    string `json:"image_url"`
}

// Fields is the payload for a create or full-row update. ImageURL must
// already be resolved by the caller before either call.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Performer   string `json:"performer"`
	EventDate   string `json:"event_date"`
	StartTime   string `json:"start_time"`
	ImageURL    string `json:"image_url"`
}

// RepositoryError wraps any backend failure of a repository operation.
// There are no partial-success states behind it.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("event repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// ListOptions control ListRecent.
type ListOptions struct {
	// UpcomingOnly restricts the listing to event_date >= today (local) and
	// flips the ordering to ascending.
	UpcomingOnly bool
}

// Repository performs CRUD against the event collection.
type Repository struct {
	backend *supabase.Provider
	table   string
	logger  zerolog.Logger
	now     func() time.Time
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithClock overrides the "today" source used by upcoming-only listings.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a repository over the backend's event table.
func NewRepository(backend *supabase.Provider, table string, opts ...RepositoryOption) *Repository {
	r := &Repository{
		backend: backend,
		table:   table,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListRecent returns up to limit events: upcoming ones ascending when
// UpcomingOnly is set, newest first otherwise. An empty result is not an
// error.
func (r *Repository) ListRecent(ctx context.Context, limit int, opts ListOptions) ([]Event, error) {
	client, err := r.backend.Handle(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}

	query := client.From(r.table).Select(columns)
	if opts.UpcomingOnly {
		query = query.Gte("event_date", r.today()).Order("event_date", true)
	} else {
		query = query.Order("event_date", false)
	}
	query = query.Limit(limit)

	var rows []Event
	if err := query.Get(ctx, &rows); err != nil {
		r.logger.Error().Err(err).Msg("event listing failed")
		return nil, &RepositoryError{Op: "list", Err: err}
	}
	return rows, nil
}

// Create inserts one new record. The generated id is not read back; callers
// reload the listing instead.
func (r *Repository) Create(ctx context.Context, fields Fields) error {
	client, err := r.backend.Handle(ctx)
	if err != nil {
		return &RepositoryError{Op: "create", Err: err}
	}
	if err := client.From(r.table).Insert(ctx, []Fields{fields}); err != nil {
		r.logger.Error().Err(err).Msg("event insert failed")
		return &RepositoryError{Op: "create", Err: err}
	}
	return nil
}

// Update replaces the full row identified by id.
func (r *Repository) Update(ctx context.Context, id string, fields Fields) error {
	client, err := r.backend.Handle(ctx)
	if err != nil {
		return &RepositoryError{Op: "update", Err: err}
	}
	if err := client.From(r.table).Eq("id", id).Update(ctx, fields); err != nil {
		r.logger.Error().Err(err).Str("event_id", id).Msg("event update failed")
		return &RepositoryError{Op: "update", Err: err}
	}
	return nil
}

// Delete removes the record identified by id. Deleting an id that is
// already absent succeeds; the backend gives no distinguishing signal and
// none is invented here.
func (r *Repository) Delete(ctx context.Context, id string) error {
	client, err := r.backend.Handle(ctx)
	if err != nil {
		return &RepositoryError{Op: "delete", Err: err}
	}
	if err := client.From(r.table).Eq("id", id).Delete(ctx); err != nil {
		r.logger.Error().Err(err).Str("event_id", id).Msg("event delete failed")
		return &RepositoryError{Op: "delete", Err: err}
	}
	return nil
}

func (r *Repository) today() string {
	return r.now().Format(DateFormat)
}
