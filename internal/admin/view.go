package admin

import "github.com/mldjordje/bubanjskioganj/internal/events"

// Tone classifies a status message for display.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// ListItem is one row of the recent-publications list.
type ListItem struct {
	ID      string
	Summary string
}

// View is the admin surface the controller drives. Implementations must be
// safe to call from auth-change callbacks as well as request handlers.
type View interface {
	// ShowLogin switches to the login card and clears the session display.
	ShowLogin()
	// ShowPanel switches to the event panel, showing the operator's email.
	ShowPanel(email string)

	SetStatus(message string, tone Tone)
	ClearStatus()

	RenderList(items []ListItem)
	RenderListError(message string)

	// PopulateForm fills the event form from an existing event for editing.
	PopulateForm(event events.Event)
	// ResetForm clears the event form.
	ResetForm()
}
