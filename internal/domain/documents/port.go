package documents

import "context"

// Archiver port (interface for optional upload archiving)
type Archiver interface {
	ArchiveDocument(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
