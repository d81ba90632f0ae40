package httpclient

import (
	"net/http"
	"time"
)

// Client is the subset of *http.Client the outbound callers use; tests substitute it
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout bounds every outbound call made through NewStandardClient
const DefaultTimeout = 10 * time.Second

// NewStandardClient returns an *http.Client with the given timeout (DefaultTimeout if zero)
func NewStandardClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
