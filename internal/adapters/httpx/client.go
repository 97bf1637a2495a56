package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// UserAgent identifies outbound requests.
const UserAgent = "sheeets/1.0 (+https://sheeets.xyz)"

// Options configures NewRetryClient.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	WaitMin  time.Duration
	WaitMax  time.Duration
}

// NewRetryClient returns a retrying HTTP client for upstream calls. 5xx and
// connection errors are retried with exponential backoff; 4xx are not.
func NewRetryClient(opts Options, logger *slog.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Timeout: opts.Timeout}
	c.RetryMax = opts.RetryMax
	if opts.WaitMin > 0 {
		c.RetryWaitMin = opts.WaitMin
	}
	if opts.WaitMax > 0 {
		c.RetryWaitMax = opts.WaitMax
	}
	if logger != nil {
		c.Logger = logger.With("component", "http")
	} else {
		c.Logger = nil
	}
	return c
}
