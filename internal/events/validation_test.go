package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_Validate(t *testing.T) {
	valid := Submission{
		Title:     "Svirka uzivo",
		Performer: "Trio X",
		EventDate: "2025-06-20",
		StartTime: "20:00",
	}

	tests := []struct {
		name       string
		mutate     func(*Submission)
		wantFields []string
	}{
		{name: "valid", mutate: func(*Submission) {}},
		{
			name:       "missing title",
			mutate:     func(s *Submission) { s.Title = "" },
			wantFields: []string{"title"},
		},
		{
			name:       "missing performer",
			mutate:     func(s *Submission) { s.Performer = "" },
			wantFields: []string{"performer"},
		},
		{
			name:       "missing date",
			mutate:     func(s *Submission) { s.EventDate = "" },
			wantFields: []string{"eventdate"},
		},
		{
			name:       "malformed date",
			mutate:     func(s *Submission) { s.EventDate = "20.06.2025" },
			wantFields: []string{"eventdate"},
		},
		{
			name:       "missing time",
			mutate:     func(s *Submission) { s.StartTime = "" },
			wantFields: []string{"starttime"},
		},
		{
			name:       "everything missing",
			mutate:     func(s *Submission) { *s = Submission{} },
			wantFields: []string{"title", "performer", "eventdate", "starttime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			tt.mutate(&sub)

			err := sub.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestSubmission_DescriptionIsOptional(t *testing.T) {
	sub := Submission{
		Title:     "Svirka",
		Performer: "Trio X",
		EventDate: "2025-06-20",
		StartTime: "20:00",
	}
	require.NoError(t, sub.Validate())
}

func TestSubmission_Fields(t *testing.T) {
	sub := Submission{
		Title:       "Svirka",
		Performer:   "Trio X",
		EventDate:   "2025-06-20",
		StartTime:   "20:00",
		Description: "Veliko veselje",
	}

	fields := sub.Fields("https://cdn.example/poster.jpg")
	assert.Equal(t, Fields{
		Title:       "Svirka",
		Description: "Veliko veselje",
		Performer:   "Trio X",
		EventDate:   "2025-06-20",
		StartTime:   "20:00",
		ImageURL:    "https://cdn.example/poster.jpg",
	}, fields)
}
