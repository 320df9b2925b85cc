package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long generated media URLs stay valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage is the object-store boundary for exercise demo videos. The
// catalog keeps object keys; clients exchange them for short-lived URLs.
type MediaStorage interface {
	// PresignUpload creates a temporary URL accepting a PUT of the object.
	// The uploader must send the same Content-Type header.
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL serving GET of the object.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object, used when media is replaced.
	DeleteObject(ctx context.Context, objectKey string) error
}
