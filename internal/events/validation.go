package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Submission is the operator's event form input before the image has been
// resolved to a URL.
type Submission struct {
	Title       string `validate:"required"`
	Performer   string `validate:"required"`
	EventDate   string `validate:"required,datetime=2006-01-02"`
	StartTime   string `validate:"required"`
	Description string
}

// ValidationError names the form fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission fields: %s", strings.Join(e.Fields, ", "))
}

// Validate checks that every required field is present and that the date is
// an ISO 8601 calendar date.
func (s Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := []string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
	}
	return &ValidationError{Fields: fields}
}

// Fields converts a validated submission plus a resolved image URL into a
// persistence payload.
func (s Submission) Fields(imageURL string) Fields {
	return Fields{
		Title:       s.Title,
		Description: s.Description,
		Performer:   s.Performer,
		EventDate:   s.EventDate,
		StartTime:   s.StartTime,
		ImageURL:    imageURL,
	}
}
