package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypePDF  = "application/pdf"

	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// ErrUnsupportedArtifact is returned for files that are neither JSON nor PDF.
var ErrUnsupportedArtifact = errors.New("unsupported artifact type")

// Options tune a Publisher.
type Options struct {
	Attempts uint
	Delay    time.Duration
	// Schema validates JSON artifacts against the embedded map schemas
	// before upload.
	Schema bool
}

// DefaultOptions returns three attempts one second apart with schema checks.
func DefaultOptions() Options {
	return Options{Attempts: DefaultAttempts, Delay: DefaultDelay, Schema: true}
}

// Artifact names a local file and where it goes.
type Artifact struct {
	Path   string
	Bucket string
	// Key defaults to the file's base name.
	Key string
}

// Result reports one published artifact.
type Result struct {
	Bucket      string `json:"bucket" yaml:"bucket"`
	Key         string `json:"key" yaml:"key"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Size        int    `json:"size" yaml:"size"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Created     bool   `json:"bucket_created" yaml:"bucket_created"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	ETag        string `json:"etag,omitempty" yaml:"etag,omitempty"`
}

// Publisher uploads mappings and templates, creating buckets on demand.
type Publisher struct {
	store  ObjectStore
	opts   Options
	logger *zap.Logger
}

// NewPublisher creates a Publisher. A nil logger discards output.
func NewPublisher(store ObjectStore, opts Options, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	return &Publisher{store: store, opts: opts, logger: logger}
}

// Publish checks the artifact locally, ensures its bucket exists and uploads
// it. Store calls are retried; local validation failures are not.
func (p *Publisher) Publish(ctx context.Context, a Artifact) (*Result, error) {
	if a.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	data, contentType, kind, err := p.load(a.Path)
	if err != nil {
		return nil, err
	}

	key := a.Key
	if key == "" {
		key = filepath.Base(a.Path)
	}
	result := &Result{
		Bucket:      a.Bucket,
		Key:         key,
		ContentType: contentType,
		Size:        len(data),
		Kind:        kind,
	}

	err = p.retry(ctx, "ensure bucket", func() error {
		created, err := p.store.EnsureBucket(ctx, a.Bucket)
		if err != nil {
			return err
		}
		result.Created = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Created {
		p.logger.Info("created bucket", zap.String("bucket", a.Bucket))
	}

	err = p.retry(ctx, "upload", func() error {
		out, err := p.store.Put(ctx, PutInput{
			Bucket:      a.Bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: contentType,
		})
		if err != nil {
			return err
		}
		result.Location = out.Location
		result.ETag = out.ETag
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("published",
		zap.String("bucket", a.Bucket),
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))
	return result, nil
}

func (p *Publisher) load(path string) ([]byte, string, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		if err := extraction.ValidatePDF(path); err != nil {
			return nil, "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, ContentTypePDF, "", nil

	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !json.Valid(data) {
			return nil, "", "", fmt.Errorf("%s is not valid JSON", path)
		}
		var kind string
		if p.opts.Schema {
			k, err := formmap.Validate(data)
			if err != nil {
				return nil, "", "", fmt.Errorf("%s: %w", path, err)
			}
			kind = string(k)
		}
		return data, ContentTypeJSON, kind, nil
	}
	return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedArtifact, path)
}

func (p *Publisher) retry(ctx context.Context, op string, fn func() error) error {
	err := retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(p.opts.Attempts),
		retry.Delay(p.opts.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying", zap.String("op", op), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
