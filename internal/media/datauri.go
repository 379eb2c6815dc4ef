package media

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIMETypeWAV is the MIME type of encoded speech.
const MIMETypeWAV = "audio/wav"

// ErrNotDataURI is returned by ParseDataURI for malformed input.
var ErrNotDataURI = errors.New("not a base64 data URI")

// DataURI encodes data as "data:{mime};base64,...". An empty mime is
// sniffed from the payload.
func DataURI(mime string, data []byte) string {
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its MIME type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrNotDataURI, err)
	}
	return mime, data, nil
}

// Extension returns a file extension (with dot) for mime, ".bin" when
// unknown.
func Extension(mime string) string {
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}

// IsText reports whether data sniffs as some kind of plain text.
func IsText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
