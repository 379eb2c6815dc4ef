package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTurnInProgress is returned by Send while another turn is running.
	ErrTurnInProgress = errors.New("a chat turn is already in progress")
)

// TextError is a failure of the text stage. It fails the whole turn.
type TextError struct {
	Err error
}

func (e *TextError) Error() string {
	return fmt.Sprintf("chat response: %v", e.Err)
}

func (e *TextError) Unwrap() error { return e.Err }

// Media stages.
const (
	StageImage = "image"
	StageAudio = "audio"
)

// MediaError is a failure of the image or audio stage. The turn still
// completes without that attachment.
type MediaError struct {
	Stage string
	Err   error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("chat %s: %v", e.Stage, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// Warning is the short notice shown next to the reply.
func (e *MediaError) Warning() string {
	switch e.Stage {
	case StageImage:
		return "The image could not be generated."
	case StageAudio:
		return "The audio could not be generated."
	}
	return e.Error()
}
