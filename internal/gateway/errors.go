package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v62/github"
)

// NotFoundError is returned when the requested user or repository does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RateLimitError is returned when GitHub refuses a request because of rate limiting.
type RateLimitError struct {
	Resource string
	Message  string
}

func (e *RateLimitError) Error() string {
	msg := fmt.Sprintf("rate limit exceeded while fetching %s", e.Resource)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg + " (set GITHUB_TOKEN to raise the limit)"
}

// HTTPError is returned for any other non-2xx response.
type HTTPError struct {
	Resource   string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("fetching %s: %d %s", e.Resource, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// classify turns a go-github error into one of the gateway error kinds.
// Errors without an HTTP response are wrapped unchanged.
func classify(resource string, resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	var message string
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		message = rateErr.Message
	case errors.As(err, &abuseErr):
		message = abuseErr.Message
	case errors.As(err, &errResp):
		message = errResp.Message
	}

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		return &NotFoundError{Resource: resource}
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return &RateLimitError{Resource: resource, Message: message}
	case status < 200 || status > 299:
		return &HTTPError{Resource: resource, StatusCode: status, Message: message}
	}
	return fmt.Errorf("failed to fetch %s: %w", resource, err)
}

// IsFetchFailure reports whether err means a request for a resource failed
// at the HTTP level: a status error or a transport failure. Cancellation and
// malformed responses are not fetch failures.
func IsFetchFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var notFound *NotFoundError
	var rateLimit *RateLimitError
	var httpErr *HTTPError
	var urlErr *url.Error
	return errors.As(err, &notFound) ||
		errors.As(err, &rateLimit) ||
		errors.As(err, &httpErr) ||
		errors.As(err, &urlErr)
}
