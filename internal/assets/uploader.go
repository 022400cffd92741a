package assets

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mldjordje/bubanjskioganj/internal/metrics"
	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/rs/zerolog"
)

// DefaultBucket is the storage bucket holding event posters.
const DefaultBucket = "event-images"

// cacheControl applied to uploaded objects, in seconds.
const cacheControl = "3600"

var unsafeChars = regexp.MustCompile(`[^a-z0-9.]+`)

// SafeFileName lowercases a filename and collapses every run of characters
// outside [a-z0-9.] into a single hyphen.
func SafeFileName(name string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(name), "-")
}

// Uploader turns a selected file into a publicly addressable URL. Each
// upload gets a fresh collision-resistant path, so a failed upload never
// needs rollback and an existing object is never overwritten.
type Uploader struct {
	backend *supabase.Provider
	bucket  string
	logger  zerolog.Logger
	now     func() time.Time
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) UploaderOption {
	return func(u *Uploader) {
		u.logger = logger
	}
}

// WithClock overrides the timestamp source used in storage paths.
func WithClock(now func() time.Time) UploaderOption {
	return func(u *Uploader) {
		u.now = now
	}
}

// NewUploader creates an uploader writing into bucket.
func NewUploader(backend *supabase.Provider, bucket string, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		backend: backend,
		bucket:  bucket,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload stores the file content and returns the public URL for it. The
// caller decides what to do on failure; there is no retry here.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader, contentType string) (string, error) {
	client, err := u.backend.Handle(ctx)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("events/%d-%s", u.now().UnixMilli(), SafeFileName(filename))
	storage := client.Storage()

	err = storage.Upload(ctx, u.bucket, path, content, supabase.UploadOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
		Upsert:       false,
	})
	if err != nil {
		metrics.AssetUploads.WithLabelValues("error").Inc()
		u.logger.Error().Err(err).Str("path", path).Msg("image upload failed")
		return "", err
	}

	metrics.AssetUploads.WithLabelValues("ok").Inc()
	publicURL := storage.PublicURL(u.bucket, path)
	u.logger.Info().Str("path", path).Msg("image uploaded")
	return publicURL, nil
}
