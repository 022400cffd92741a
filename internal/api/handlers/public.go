package handlers

import (
	"html/template"
	"net/http"

	"github.com/mldjordje/bubanjskioganj/internal/public"
	"github.com/rs/zerolog"
)

// PublicHandler renders the visitor-facing upcoming-events page.
type PublicHandler struct {
	projection *public.Projection
	templates  *template.Template
	logger     zerolog.Logger
}

func NewPublicHandler(projection *public.Projection, templates *template.Template, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		projection: projection,
		templates:  templates,
		logger:     logger,
	}
}

// ServeHome renders the public page. Query failures surface as an in-page
// status message, never as an error page.
func (h *PublicHandler) ServeHome(w http.ResponseWriter, r *http.Request) {
	page := h.projection.Load(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "public.html", page); err != nil {
		h.logger.Error().Err(err).Msg("public template render failed")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
