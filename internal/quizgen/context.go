package quizgen

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quizwise/internal/media"
)

// MaxContextBytes is the largest accepted context upload.
const MaxContextBytes = 1 << 20

var (
	// ErrContextTooLarge is returned for uploads over MaxContextBytes.
	ErrContextTooLarge = errors.New("context file exceeds 1 MiB")

	// ErrContextType is returned for anything but a .txt file.
	ErrContextType = errors.New("context must be a .txt file")
)

// ComposeTopic appends context to topic under a "Context:" heading.
// Blank context leaves topic unchanged.
func ComposeTopic(topic, context string) string {
	topic = strings.TrimSpace(topic)
	if strings.TrimSpace(context) == "" {
		return topic
	}
	return topic + "\n\nContext:\n" + context
}

// ReadContext reads an uploaded context file. Only .txt files up to
// MaxContextBytes of UTF-8 text are accepted.
func ReadContext(r io.Reader, name string) (string, error) {
	if !strings.EqualFold(filepath.Ext(name), ".txt") {
		return "", ErrContextType
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxContextBytes+1))
	if err != nil {
		return "", fmt.Errorf("read context: %w", err)
	}
	if len(data) > MaxContextBytes {
		return "", ErrContextTooLarge
	}
	if !utf8.Valid(data) || (len(data) > 0 && !media.IsText(data)) {
		return "", fmt.Errorf("%w: content is not plain text", ErrContextType)
	}
	return string(data), nil
}
