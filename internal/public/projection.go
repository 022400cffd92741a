package public

import (
	"context"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mldjordje/bubanjskioganj/internal/events"
	"github.com/mldjordje/bubanjskioganj/internal/metrics"
	"github.com/rs/zerolog"
)

// projectionLimit is the fixed window of upcoming events shown to visitors.
const projectionLimit = 3

// Visitor-facing texts (Serbian, Latin script).
const (
	badgeText              = "Najava"
	placeholderTitle       = "Dogadjaj u kafani"
	placeholderPerformer   = "Pevac ce biti objavljen"
	placeholderDescription = "Detalji stizu uskoro."
	placeholderTime        = "TBA"
	performerPrefix        = "Peva: "
	imageAltFallback       = "Dogadjaj"

	statusEmpty = "Trenutno nema najavljenih dogadjaja."
	statusError = "Nije moguce dohvatiti najave. Proverite podesavanja Supabase naloga."
)

// EventStore is the read slice of the event repository the projection needs.
type EventStore interface {
	ListRecent(ctx context.Context, limit int, opts events.ListOptions) ([]events.Event, error)
}

// Card is one rendered upcoming event.
type Card struct {
	Badge       string
	Title       string
	Meta        string
	Performer   string
	Description string
	// ImageURL is empty when the event has no image; the card then renders
	// without an image element entirely.
	ImageURL string
	ImageAlt string
}

// Page is the public projection of upcoming events. Status carries a
// visitor-facing message when there are no cards to show; neither an empty
// result nor a query failure is fatal to the page around it.
type Page struct {
	Status string
	Cards  []Card
}

// Projection builds the read-only upcoming-events view.
type Projection struct {
	store  EventStore
	logger zerolog.Logger
	policy *bluemonday.Policy
}

// ProjectionOption configures a Projection.
type ProjectionOption func(*Projection)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) ProjectionOption {
	return func(p *Projection) {
		p.logger = logger
	}
}

// NewProjection creates the public projection over the event store.
func NewProjection(store EventStore, opts ...ProjectionOption) *Projection {
	p := &Projection{
		store:  store,
		logger: zerolog.Nop(),
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load queries up to three upcoming events, soonest first, and renders them
// into cards.
func (p *Projection) Load(ctx context.Context) Page {
	listed, err := p.store.ListRecent(ctx, projectionLimit, events.ListOptions{UpcomingOnly: true})
	if err != nil {
		metrics.ProjectionLoads.WithLabelValues("error").Inc()
		p.logger.Error().Err(err).Msg("upcoming events query failed")
		return Page{Status: statusError}
	}
	if len(listed) == 0 {
		metrics.ProjectionLoads.WithLabelValues("empty").Inc()
		return Page{Status: statusEmpty}
	}

	metrics.ProjectionLoads.WithLabelValues("ok").Inc()
	cards := make([]Card, 0, len(listed))
	for _, ev := range listed {
		cards = append(cards, p.card(ev))
	}
	return Page{Cards: cards}
}

func (p *Projection) card(ev events.Event) Card {
	title := p.plainText(ev.Title)
	if title == "" {
		title = placeholderTitle
	}

	start := ev.StartTime
	if start == "" {
		start = placeholderTime
	}

	performer := placeholderPerformer
	if plain := p.plainText(ev.Performer); plain != "" {
		performer = performerPrefix + plain
	}

	description := p.plainText(ev.Description)
	if description == "" {
		description = placeholderDescription
	}

	alt := title
	if alt == placeholderTitle {
		alt = imageAltFallback
	}

	return Card{
		Badge:       badgeText,
		Title:       title,
		Meta:        fmt.Sprintf("%s - Pocetak %s", events.FormatDate(ev.EventDate), start),
		Performer:   performer,
		Description: description,
		ImageURL:    ev.ImageURL,
		ImageAlt:    alt,
	}
}

// plainText strips any stored markup and returns the remaining text
// unescaped. Cards carry plain text; the template escapes it once at
// render time.
func (p *Projection) plainText(s string) string {
	return html.UnescapeString(p.policy.Sanitize(s))
}
