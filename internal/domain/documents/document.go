package documents

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Kind identifies which upload control a document belongs to.
type Kind string

const (
	KindInstrument Kind = "instrument"
	KindCredit     Kind = "credit"
	KindVehicle    Kind = "vehicle"
)

var (
	ErrUnknownKind     = errors.New("unknown document kind")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
)

// allowedMIME is the fixed upload allow-list.
var allowedMIME = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// ParseKind validates a kind from a URL segment.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindInstrument, KindCredit, KindVehicle:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
}

// Document is an uploaded file held in memory for the duration of a
// session. It is replaced wholesale by the next upload of the same kind.
type Document struct {
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Data       []byte    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
	ArchiveURL string    `json:"archive_url,omitempty"`
}

// New validates the declared MIME type against the allow-list and wraps
// the raw bytes. The whole payload stays in memory; there is no size
// limit and no streaming.
func New(name, mimeType string, data []byte, now time.Time) (*Document, error) {
	if !allowedMIME[mimeType] {
		return nil, fmt.Errorf("%w: %s (allowed: application/pdf, image/jpeg, image/png)", ErrUnsupportedType, mimeType)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return &Document{
		Name:       name,
		MimeType:   mimeType,
		Data:       data,
		UploadedAt: now,
	}, nil
}

// Base64 encodes the payload for transmission to the provider.
func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Data)
}
