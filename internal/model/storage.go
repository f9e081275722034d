package model

import (
	"context"
	"io"
)

// FileStore uploads blobs and returns retrievable URLs.
type FileStore interface {
	// Upload stores the blob under key and returns its public URL.
	// Size and content type are validated before any network call.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
