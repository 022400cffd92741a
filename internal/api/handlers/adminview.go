package handlers

import (
	"sync"

	"github.com/mldjordje/bubanjskioganj/internal/admin"
	"github.com/mldjordje/bubanjskioganj/internal/events"
)

// FormValues mirrors the event form fields so the form survives a failed
// submission.
type FormValues struct {
	Title       string
	Performer   string
	EventDate   string
	StartTime   string
	Description string
}

// ViewState is everything the admin template needs for one render.
type ViewState struct {
	ShowLogin bool
	Email     string
	Status    string
	Tone      admin.Tone
	Items     []admin.ListItem
	ListError string
	Form      FormValues
	Editing   bool
}

// adminView is the server-side rendition of the admin page: the controller
// drives it through the admin.View interface and GET /admin renders a
// snapshot of it. Callbacks can arrive from auth-state notifications, so
// access is locked.
type adminView struct {
	mu    sync.Mutex
	state ViewState
}

func newAdminView() *adminView {
	return &adminView{state: ViewState{ShowLogin: true}}
}

var _ admin.View = (*adminView)(nil)

func (v *adminView) ShowLogin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ShowLogin = true
	v.state.Email = ""
	v.state.Items = nil
	v.state.ListError = ""
	v.state.Editing = false
}

func (v *adminView) ShowPanel(email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ShowLogin = false
	v.state.Email = email
}

func (v *adminView) SetStatus(message string, tone admin.Tone) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Status = message
	v.state.Tone = tone
}

func (v *adminView) ClearStatus() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Status = ""
	v.state.Tone = ""
}

func (v *adminView) RenderList(items []admin.ListItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = items
	v.state.ListError = ""
}

func (v *adminView) RenderListError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = nil
	v.state.ListError = message
}

func (v *adminView) PopulateForm(event events.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Form = FormValues{
		Title:       event.Title,
		Performer:   event.Performer,
		EventDate:   event.EventDate,
		StartTime:   event.StartTime,
		Description: event.Description,
	}
	v.state.Editing = true
}

func (v *adminView) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Form = FormValues{}
	v.state.Editing = false
}

// setForm records submitted values so a failed submission keeps them.
func (v *adminView) setForm(form FormValues) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Form = form
}

func (v *adminView) snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	snap := v.state
	snap.Items = append([]admin.ListItem(nil), v.state.Items...)
	return snap
}
