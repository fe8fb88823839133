package speech

import (
	"errors"
	"fmt"
)

// Kind classifies a speech capture failure
type Kind string

const (
	// KindUnintelligible means audio was captured but nothing was understood
	KindUnintelligible Kind = "unintelligible"
	// KindServiceUnavailable means the recognition service failed or could not be reached
	KindServiceUnavailable Kind = "service_unavailable"
	// KindDeviceUnavailable means the audio input could not be opened
	KindDeviceUnavailable Kind = "device_unavailable"
)

// ErrNoUtterance means nobody spoke before the listen timeout
var ErrNoUtterance = errors.New("no utterance started")

// ErrNoSpeech is returned by recognizers when the audio held no understandable speech
var ErrNoSpeech = errors.New("no speech recognized")

// Error is a classified speech capture failure
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("speech %s", e.Kind)
	}
	return fmt.Sprintf("speech %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a speech error of the given kind
func IsKind(err error, kind Kind) bool {
	var speechErr *Error
	return errors.As(err, &speechErr) && speechErr.Kind == kind
}
