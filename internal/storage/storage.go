package storage

import (
	"context"
	"io"
	"time"
)

// Uploader persists a resume file and returns the stored object path that
// the resume record keeps as its reference.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer mints a short-lived download URL for a stored resume. Objects are
// private; clients only ever see signed URLs.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
