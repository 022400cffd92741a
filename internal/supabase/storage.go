package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// StorageClient talks to the backend's object storage service.
type StorageClient struct {
	c *Client
}

// UploadOptions control a single object upload.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	// Upsert allows replacing an existing object at the path. Callers that
	// derive fresh paths leave this false so a collision fails loudly
	// instead of silently overwriting.
	Upsert bool
}

// Upload stores an object under bucket/path. A non-2xx response (including
// 409 for an existing object when Upsert is false) yields a *StorageError.
func (s *StorageClient) Upload(ctx context.Context, bucket, path string, body io.Reader, opts UploadOptions) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.c.baseURL, url.PathEscape(bucket), escapeObjectPath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return &StorageError{Bucket: bucket, Path: path, Err: err}
	}

	token, err := s.c.auth.bearerToken(ctx)
	if err != nil {
		return &StorageError{Bucket: bucket, Path: path, Err: err}
	}
	req.Header.Set("apikey", s.c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if opts.CacheControl != "" {
		req.Header.Set("cache-control", opts.CacheControl)
	}
	req.Header.Set("x-upsert", fmt.Sprintf("%t", opts.Upsert))

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return &StorageError{Bucket: bucket, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StorageError{
			Bucket: bucket,
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("upload rejected: %s", strings.TrimSpace(string(snippet))),
		}
	}
	return nil
}

// PublicURL resolves the publicly addressable URL for an object.
func (s *StorageClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.c.baseURL, url.PathEscape(bucket), escapeObjectPath(path))
}

// escapeObjectPath escapes each path segment while keeping separators.
func escapeObjectPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
