package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mldjordje/bubanjskioganj/internal/events"
	"github.com/mldjordje/bubanjskioganj/internal/metrics"
	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/rs/zerolog"
)

// listLimit is how many recent publications the admin list shows.
const listLimit = 5

// EventStore is the slice of the event repository the controller needs.
type EventStore interface {
	ListRecent(ctx context.Context, limit int, opts events.ListOptions) ([]events.Event, error)
	Create(ctx context.Context, fields events.Fields) error
	Update(ctx context.Context, id string, fields events.Fields) error
	Delete(ctx context.Context, id string) error
}

// ImageStore resolves a selected file into a publicly addressable URL.
type ImageStore interface {
	Upload(ctx context.Context, filename string, content io.Reader, contentType string) (string, error)
}

// AuthService is the authentication capability group of the backend.
type AuthService interface {
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	Session() *supabase.Session
	OnAuthStateChange(fn func(supabase.AuthEvent, *supabase.Session)) func()
}

// Backend lazily resolves the authentication service. Resolution fails when
// the deployment config endpoint is unavailable.
type Backend interface {
	Auth(ctx context.Context) (AuthService, error)
}

type providerBackend struct {
	provider *supabase.Provider
}

func (b providerBackend) Auth(ctx context.Context) (AuthService, error) {
	client, err := b.provider.Handle(ctx)
	if err != nil {
		return nil, err
	}
	return client.Auth(), nil
}

// NewBackend adapts a supabase provider into the controller's Backend.
func NewBackend(provider *supabase.Provider) Backend {
	return providerBackend{provider: provider}
}

// FileUpload is a file the operator selected in the event form.
type FileUpload struct {
	Name        string
	Content     io.Reader
	ContentType string
}

// State is the controller's auth state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

// editCursor marks an in-progress edit: which event is being edited and the
// image URL to carry forward if the operator does not pick a new file.
type editCursor struct {
	editingID       string
	carriedImageURL string
}

// Controller owns the admin workflow: the sign-in state machine, the
// create/edit/delete cycle, and the recent-publications list. All mutable
// state lives on the controller and is reset on sign-out.
type Controller struct {
	backend Backend
	store   EventStore
	images  ImageStore
	view    View
	logger  zerolog.Logger

	mu          sync.Mutex
	state       State
	email       string
	cursor      editCursor
	lastList    []events.Event
	submitting  bool
	unsubscribe func()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController wires the admin workflow together. Call Bootstrap before
// exposing any operator action, and Close when the view goes away.
func NewController(backend Backend, store EventStore, images ImageStore, view View, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		store:   store,
		images:  images,
		view:    view,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bootstrap restores an existing session if there is one and subscribes to
// auth-state changes. A config resolution failure is fatal to the panel:
// the message is shown once and the login view stays up.
func (c *Controller) Bootstrap(ctx context.Context) error {
	auth, err := c.backend.Auth(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("backend unavailable during bootstrap")
		c.view.SetStatus(statusConfigMissing, ToneError)
		c.view.ShowLogin()
		return err
	}

	if session := auth.Session(); session != nil {
		c.mu.Lock()
		c.state = Authenticated
		c.email = session.Email
		c.mu.Unlock()
		c.view.ShowPanel(session.Email)
		c.RefreshList(ctx)
	} else {
		c.view.ShowLogin()
	}

	unsubscribe := auth.OnAuthStateChange(c.handleAuthChange)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// Close tears down the auth-state subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Authenticated reports whether an operator is signed in.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Authenticated
}

// Email returns the signed-in operator's email, or "".
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// SignIn submits a credential pair. View transitions happen through the
// auth-state subscription so that sign-ins from any origin take one path.
func (c *Controller) SignIn(ctx context.Context, email, password string) {
	c.view.ClearStatus()
	c.view.SetStatus(statusSigningIn, ToneInfo)

	auth, err := c.backend.Auth(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("backend unavailable during sign-in")
		c.view.SetStatus(statusConfigMissing, ToneError)
		return
	}

	if err := auth.SignInWithPassword(ctx, email, password); err != nil {
		var authErr *supabase.AuthError
		if errors.As(err, &authErr) && authErr.Status >= 400 && authErr.Status < 500 {
			metrics.SignIns.WithLabelValues("rejected").Inc()
			c.view.SetStatus(statusSignInFailed, ToneError)
		} else {
			metrics.SignIns.WithLabelValues("error").Inc()
			c.view.SetStatus(statusSignInError, ToneError)
		}
		c.logger.Warn().Err(err).Msg("sign-in failed")
		return
	}

	metrics.SignIns.WithLabelValues("ok").Inc()
	c.view.SetStatus(statusSignedIn, ToneSuccess)
}

// SignOut revokes the session. State cleanup happens in the auth-state
// subscription, which also covers sign-outs initiated elsewhere.
func (c *Controller) SignOut(ctx context.Context) {
	auth, err := c.backend.Auth(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("backend unavailable during sign-out")
		return
	}
	_ = auth.SignOut(ctx)
	c.view.SetStatus(statusSignedOut, ToneInfo)
}

// handleAuthChange reacts to auth-state notifications: a sign-out from any
// origin clears the edit cursor so no stale edit target survives a session
// change.
func (c *Controller) handleAuthChange(event supabase.AuthEvent, session *supabase.Session) {
	switch event {
	case supabase.SignedOut:
		c.mu.Lock()
		c.state = Unauthenticated
		c.email = ""
		c.cursor = editCursor{}
		c.lastList = nil
		c.mu.Unlock()
		c.view.ResetForm()
		c.view.ShowLogin()
	case supabase.SignedIn:
		email := ""
		if session != nil {
			email = session.Email
		}
		c.mu.Lock()
		c.state = Authenticated
		c.email = email
		c.mu.Unlock()
		c.view.ShowPanel(email)
		c.RefreshList(context.Background())
	}
}

// RefreshList reloads the recent-publications list, newest first.
func (c *Controller) RefreshList(ctx context.Context) {
	listed, err := c.store.ListRecent(ctx, listLimit, events.ListOptions{})
	if err != nil {
		c.logger.Error().Err(err).Msg("admin list refresh failed")
		c.view.RenderListError(listLoadFailed)
		return
	}

	c.mu.Lock()
	c.lastList = listed
	c.mu.Unlock()

	items := make([]ListItem, 0, len(listed))
	for _, ev := range listed {
		items = append(items, ListItem{ID: ev.ID, Summary: summarize(ev)})
	}
	c.view.RenderList(items)
}

// Edit switches the form into edit mode for a listed event.
func (c *Controller) Edit(id string) {
	c.mu.Lock()
	if c.state != Authenticated {
		c.mu.Unlock()
		return
	}
	var target *events.Event
	for i := range c.lastList {
		if c.lastList[i].ID == id {
			target = &c.lastList[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		c.view.SetStatus(statusEditMissing, ToneError)
		return
	}
	c.cursor = editCursor{editingID: target.ID, carriedImageURL: target.ImageURL}
	selected := *target
	c.mu.Unlock()

	c.view.PopulateForm(selected)
	c.view.SetStatus(statusEditing, ToneInfo)
}

// CancelEdit abandons an in-progress edit.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.cursor = editCursor{}
	c.mu.Unlock()
	c.view.ResetForm()
	c.view.SetStatus(statusEditCanceled, ToneInfo)
}

// Editing reports whether an edit is in progress.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.editingID != ""
}

// Delete removes a listed event. Without explicit confirmation it does
// nothing. Deleting an already-absent id still succeeds.
func (c *Controller) Delete(ctx context.Context, id string, confirmed bool) {
	if !confirmed {
		return
	}
	c.mu.Lock()
	if c.state != Authenticated {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		metrics.EventDeletions.WithLabelValues("error").Inc()
		c.logger.Error().Err(err).Str("event_id", id).Msg("event deletion failed")
		c.view.SetStatus(statusDeleteFailed, ToneError)
		return
	}

	metrics.EventDeletions.WithLabelValues("ok").Inc()
	c.mu.Lock()
	if c.cursor.editingID == id {
		c.cursor = editCursor{}
	}
	c.mu.Unlock()
	c.view.SetStatus(statusDeleted, ToneSuccess)
	c.RefreshList(ctx)
}

// Submit runs the publish workflow: validate, upload the selected file if
// any, then create or update depending on the edit cursor. While a
// submission is in flight further submissions are refused; the guard is
// lifted in a deferred step regardless of outcome. On failure the form is
// left intact so the operator can retry.
func (c *Controller) Submit(ctx context.Context, sub events.Submission, file *FileUpload) {
	c.view.ClearStatus()

	c.mu.Lock()
	if c.state != Authenticated {
		c.mu.Unlock()
		return
	}
	if c.submitting {
		c.mu.Unlock()
		c.view.SetStatus(statusInFlight, ToneInfo)
		return
	}
	c.submitting = true
	cursor := c.cursor
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if err := sub.Validate(); err != nil {
		metrics.EventSubmissions.WithLabelValues(kindOf(cursor), "invalid").Inc()
		c.view.SetStatus(statusValidation, ToneError)
		return
	}
	if file == nil && cursor.editingID == "" {
		metrics.EventSubmissions.WithLabelValues("create", "invalid").Inc()
		c.view.SetStatus(statusValidation, ToneError)
		return
	}

	c.view.SetStatus(statusPublishing, ToneInfo)

	imageURL := cursor.carriedImageURL
	if file != nil {
		uploaded, err := c.images.Upload(ctx, file.Name, file.Content, file.ContentType)
		if err != nil {
			metrics.EventSubmissions.WithLabelValues(kindOf(cursor), "upload_failed").Inc()
			c.logger.Error().Err(err).Msg("image upload failed during submit")
			c.view.SetStatus(statusPublishFailed, ToneError)
			return
		}
		imageURL = uploaded
	}

	fields := sub.Fields(imageURL)
	var err error
	if cursor.editingID != "" {
		err = c.store.Update(ctx, cursor.editingID, fields)
	} else {
		err = c.store.Create(ctx, fields)
	}
	if err != nil {
		metrics.EventSubmissions.WithLabelValues(kindOf(cursor), "store_failed").Inc()
		c.logger.Error().Err(err).Msg("event persistence failed")
		c.view.SetStatus(statusPublishFailed, ToneError)
		return
	}

	metrics.EventSubmissions.WithLabelValues(kindOf(cursor), "ok").Inc()
	c.mu.Lock()
	c.cursor = editCursor{}
	c.mu.Unlock()
	c.view.ResetForm()
	if cursor.editingID != "" {
		c.view.SetStatus(statusUpdated, ToneSuccess)
	} else {
		c.view.SetStatus(statusPublished, ToneSuccess)
	}
	c.RefreshList(ctx)
}

func kindOf(cursor editCursor) string {
	if cursor.editingID != "" {
		return "update"
	}
	return "create"
}

// summarize renders one admin list line, e.g.
// "Live Jazz - 1. jun 2025. - Pocetak 20:00 - Trio X".
func summarize(ev events.Event) string {
	title := ev.Title
	if title == "" {
		title = fallbackTitle
	}
	start := ev.StartTime
	if start == "" {
		start = fallbackTime
	}
	summary := fmt.Sprintf("%s - %s - Pocetak %s", title, events.FormatDate(ev.EventDate), start)
	if ev.Performer != "" {
		summary += " - " + ev.Performer
	}
	return summary
}
