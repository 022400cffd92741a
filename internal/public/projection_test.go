package public

import (
	"context"
	"errors"
	"testing"

	"github.com/mldjordje/bubanjskioganj/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	listed []events.Event
	err    error

	gotLimit int
	gotOpts  events.ListOptions
}

func (f *fakeStore) ListRecent(ctx context.Context, limit int, opts events.ListOptions) ([]events.Event, error) {
	f.gotLimit = limit
	f.gotOpts = opts
	return f.listed, f.err
}

func TestLoad_QueriesThreeUpcomingEvents(t *testing.T) {
	store := &fakeStore{listed: []events.Event{{ID: "1", Title: "Svirka", EventDate: "2025-06-20", StartTime: "20:00"}}}
	projection := NewProjection(store)

	page := projection.Load(context.Background())

	assert.Equal(t, 3, store.gotLimit)
	assert.True(t, store.gotOpts.UpcomingOnly)
	assert.Empty(t, page.Status)
	require.Len(t, page.Cards, 1)
}

func TestLoad_EmptyListShowsStatus(t *testing.T) {
	projection := NewProjection(&fakeStore{})

	page := projection.Load(context.Background())

	assert.Equal(t, statusEmpty, page.Status)
	assert.Empty(t, page.Cards)
}

func TestLoad_QueryFailureShowsStatus(t *testing.T) {
	projection := NewProjection(&fakeStore{err: errors.New("connection refused")})

	page := projection.Load(context.Background())

	assert.Equal(t, statusError, page.Status)
	assert.Empty(t, page.Cards)
}

func TestCard_FullEvent(t *testing.T) {
	store := &fakeStore{listed: []events.Event{{
		ID:          "1",
		Title:       "Svirka uzivo",
		Performer:   "Trio X",
		Description: "Veliko veselje",
		EventDate:   "2025-06-01",
		StartTime:   "20:00",
		ImageURL:    "https://cdn.example/poster.jpg",
	}}}
	projection := NewProjection(store)

	page := projection.Load(context.Background())
	require.Len(t, page.Cards, 1)

	card := page.Cards[0]
	assert.Equal(t, "Najava", card.Badge)
	assert.Equal(t, "Svirka uzivo", card.Title)
	assert.Equal(t, "1. jun 2025. - Pocetak 20:00", card.Meta)
	assert.Equal(t, "Peva: Trio X", card.Performer)
	assert.Equal(t, "Veliko veselje", card.Description)
	assert.Equal(t, "https://cdn.example/poster.jpg", card.ImageURL)
	assert.Equal(t, "Svirka uzivo", card.ImageAlt)
}

func TestCard_Placeholders(t *testing.T) {
	store := &fakeStore{listed: []events.Event{{ID: "1", EventDate: "2025-06-01"}}}
	projection := NewProjection(store)

	page := projection.Load(context.Background())
	require.Len(t, page.Cards, 1)

	card := page.Cards[0]
	assert.Equal(t, placeholderTitle, card.Title)
	assert.Equal(t, placeholderPerformer, card.Performer)
	assert.Equal(t, placeholderDescription, card.Description)
	assert.Equal(t, "1. jun 2025. - Pocetak TBA", card.Meta)
	assert.Empty(t, card.ImageURL)
	assert.Equal(t, imageAltFallback, card.ImageAlt)
}

func TestCard_KeepsPlainTextUnescaped(t *testing.T) {
	store := &fakeStore{listed: []events.Event{{
		ID:          "1",
		Title:       "Rock & Roll Vece",
		Performer:   "Trio X & Friends",
		Description: `Svira se "uzivo" do kasno`,
		EventDate:   "2025-06-01",
	}}}
	projection := NewProjection(store)

	page := projection.Load(context.Background())
	require.Len(t, page.Cards, 1)

	// Cards carry plain text; entity escaping is the template's job.
	card := page.Cards[0]
	assert.Equal(t, "Rock & Roll Vece", card.Title)
	assert.Equal(t, "Peva: Trio X & Friends", card.Performer)
	assert.Equal(t, `Svira se "uzivo" do kasno`, card.Description)
}

func TestCard_SanitizesStoredMarkup(t *testing.T) {
	store := &fakeStore{listed: []events.Event{{
		ID:          "1",
		Title:       `Svirka <script>alert("x")</script>`,
		Description: `<b>Veselje</b>`,
		EventDate:   "2025-06-01",
	}}}
	projection := NewProjection(store)

	page := projection.Load(context.Background())
	require.Len(t, page.Cards, 1)

	card := page.Cards[0]
	assert.NotContains(t, card.Title, "<script>")
	assert.NotContains(t, card.Description, "<b>")
	assert.Contains(t, card.Description, "Veselje")
}
