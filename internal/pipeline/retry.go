package pipeline

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"
)

// IsTransient reports whether a provider error is worth one more attempt.
// Rate limits, 5xx responses, and network-level failures are transient;
// content rejections (4xx) and cancellation are terminal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return false
}

// withRetry runs fn, retrying exactly once when the failure is transient.
// Content errors are never retried.
func withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !IsTransient(err) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	return fn()
}
