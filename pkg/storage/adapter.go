// Package storage talks to the storage gateway that fronts the object store.
// This service never touches objects directly; it only asks the gateway for
// presigned links and uploads the small audio artifacts it produces.
package storage

import (
	"context"
	"io"
	"time"
)

// TextExtractor pulls machine-readable text out of a stored object.
type TextExtractor interface {
	ExtractText(ctx context.Context, key string) (string, error)
}

type Adapter interface {
	// PresignGet returns a time-limited download URL for an object key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Upload stores an object and returns nothing; callers presign separately.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
