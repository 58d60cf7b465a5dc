package download

import "errors"

var (
	ErrSessionNotFound = errors.New("download session not found")
	ErrNotReady        = errors.New("download countdown still running")
)

// RedirectError signals that the asset bytes could not be streamed and the
// client should be redirected to the hosted URL instead
type RedirectError struct {
	URL string
	Err error
}

func (e *RedirectError) Error() string {
	return "asset fetch failed, redirecting: " + e.Err.Error()
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}
