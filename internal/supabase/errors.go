package supabase

import "fmt"

// ConfigError indicates the deployment config endpoint was unreachable or
// returned an unusable payload. There is no recovery short of fixing the
// deployment, so callers surface it once and fall back to a degraded view.
type ConfigError struct {
	Endpoint string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("supabase config unavailable from %s: %v", e.Endpoint, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError indicates a sign-in, sign-out, or token refresh rejection.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth request failed (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("auth request failed (status %d)", e.Status)
}

func (e *AuthError) Unwrap() error { return e.Err }

// StorageError indicates an object upload or resolution failure.
type StorageError struct {
	Bucket string
	Path   string
	Status int
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation on %s/%s failed (status %d): %v", e.Bucket, e.Path, e.Status, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RequestError is the raw failure of a table operation. The event repository
// wraps it into its own error type before it reaches callers.
type RequestError struct {
	Method string
	Table  string
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Table, e.Err)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Table, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }
