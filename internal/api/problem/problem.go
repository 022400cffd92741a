package problem

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// ProblemDetails is an RFC 7807 error payload.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Write logs the failure and sends a problem+json response. Outside of
// development the detail is reduced to the generic status text.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string) {
	p := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}
	if err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}
	if r != nil {
		p.Instance = r.URL.Path
		if err != nil {
			logger := zerolog.Ctx(r.Context())
			event := logger.Warn()
			if status >= 500 {
				event = logger.Error()
			}
			event.Err(err).Int("status", status).Str("path", r.URL.Path).Str("method", r.Method).Msg(title)
		}
	}
	WriteProblem(w, p)
}

// WriteProblem sends a problem+json response.
func WriteProblem(w http.ResponseWriter, p ProblemDetails) {
	payload, err := json.Marshal(p)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}
