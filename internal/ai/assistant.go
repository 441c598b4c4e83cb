package ai

import (
	"context"
	"errors"
	"fmt"
)

// LabelPerson is the entity label assigned to people.
const LabelPerson = "PERSON"

// ErrModelUnavailable is returned when a recognition model cannot be loaded or reached.
var ErrModelUnavailable = errors.New("named-entity recognition model is unavailable")

type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
}

// Recognizer is a loaded named-entity recognition model. It is acquired once
// by the caller and released with Close when the run is over.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
	Close() error
}

// UnavailableError describes why a recognizer backend could not be acquired
// and how to provision it.
type UnavailableError struct {
	Backend string
	Hint    string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Backend, ErrModelUnavailable)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, ErrModelUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrModelUnavailable}
	}
	return []error{ErrModelUnavailable, e.Err}
}

// Unavailable builds an error that matches ErrModelUnavailable via errors.Is.
func Unavailable(backend, hint string, err error) error {
	return &UnavailableError{Backend: backend, Hint: hint, Err: err}
}

// Hint returns the remediation hint carried by err, if any.
func Hint(err error) string {
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Hint
	}
	return ""
}
