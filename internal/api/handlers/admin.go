package handlers

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/mldjordje/bubanjskioganj/internal/admin"
	"github.com/mldjordje/bubanjskioganj/internal/api/middleware"
	"github.com/mldjordje/bubanjskioganj/internal/events"
	"github.com/rs/zerolog"
)

// maxUploadBytes caps the multipart event form, image included.
const maxUploadBytes = 10 << 20

// AdminHandler binds the admin controller to the HTTP surface. Every
// mutating route delegates to the controller and redirects back to the
// panel, which renders the view's current state.
type AdminHandler struct {
	controller *admin.Controller
	view       *adminView
	templates  *template.Template
	logger     zerolog.Logger

	mu     sync.Mutex
	booted bool
}

// NewAdminHandler creates the admin surface: a server-side view, the
// controller driving it, and the handlers binding both to HTTP.
func NewAdminHandler(backend admin.Backend, store admin.EventStore, images admin.ImageStore, templates *template.Template, logger zerolog.Logger) *AdminHandler {
	view := newAdminView()
	return &AdminHandler{
		controller: admin.NewController(backend, store, images, view, admin.WithLogger(logger)),
		view:       view,
		templates:  templates,
		logger:     logger,
	}
}

// Close releases the controller's auth subscription.
func (h *AdminHandler) Close() {
	h.controller.Close()
}

// ensureBootstrap runs the controller bootstrap on the first admin page
// load. A failed bootstrap (config endpoint down) is retried on the next
// load; once it has succeeded it never runs again.
func (h *AdminHandler) ensureBootstrap(r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.booted {
		return
	}
	if err := h.controller.Bootstrap(r.Context()); err == nil {
		h.booted = true
	}
}

// ServePanel renders the admin page from the view's current state.
func (h *AdminHandler) ServePanel(w http.ResponseWriter, r *http.Request) {
	h.ensureBootstrap(r)

	snap := h.view.snapshot()
	data := struct {
		ViewState
		CSRFField template.HTML
	}{
		ViewState: snap,
		CSRFField: template.HTML(middleware.CSRFField(r)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "admin.html", data); err != nil {
		h.logger.Error().Err(err).Msg("admin template render failed")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Login handles the credential form.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.ensureBootstrap(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	h.controller.SignIn(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	h.redirect(w, r)
}

// Logout ends the operator session.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.controller.SignOut(r.Context())
	h.redirect(w, r)
}

// SubmitEvent handles the event form: create when no edit is in progress,
// update otherwise.
func (h *AdminHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := FormValues{
		Title:       r.PostFormValue("title"),
		Performer:   r.PostFormValue("performer"),
		EventDate:   r.PostFormValue("event_date"),
		StartTime:   r.PostFormValue("start_time"),
		Description: r.PostFormValue("description"),
	}
	// Keep the submitted values around; a successful submit resets them
	// through the controller.
	h.view.setForm(form)

	var upload *admin.FileUpload
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		upload = &admin.FileUpload{
			Name:        header.Filename,
			Content:     file,
			ContentType: header.Header.Get("Content-Type"),
		}
	} else if err != http.ErrMissingFile {
		http.Error(w, "bad upload", http.StatusBadRequest)
		return
	}

	submission := events.Submission{
		Title:       form.Title,
		Performer:   form.Performer,
		EventDate:   form.EventDate,
		StartTime:   form.StartTime,
		Description: form.Description,
	}
	h.controller.Submit(r.Context(), submission, upload)
	h.redirect(w, r)
}

// EditEvent switches the form into edit mode for the listed event.
func (h *AdminHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	h.controller.Edit(r.PathValue("id"))
	h.redirect(w, r)
}

// DeleteEvent removes a listed event after explicit confirmation.
func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"
	h.controller.Delete(r.Context(), r.PathValue("id"), confirmed)
	h.redirect(w, r)
}

// CancelEdit abandons an in-progress edit.
func (h *AdminHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelEdit()
	h.redirect(w, r)
}

func (h *AdminHandler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
