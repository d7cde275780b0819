// Package publish uploads coordinate maps and templates to object storage.
package publish

import (
	"context"
	"io"
)

// PutInput describes one object upload. Uploads overwrite existing keys.
type PutInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// PutOutput holds what the store reports for a finished upload.
type PutOutput struct {
	Location string
	ETag     string
}

// ObjectStore abstracts the bucket operations publishing needs.
type ObjectStore interface {
	// EnsureBucket creates bucket when it does not exist and reports
	// whether it did.
	EnsureBucket(ctx context.Context, bucket string) (bool, error)
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}
