package sanity

import (
	"net/http"
	"time"

	"github.com/pagrico/blog/internal/logger"
)

// loggingRoundTripper logs every outbound query with its status and latency.
// The GROQ text is left out; it is long and fixed per call site.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":   req.Method,
		"host":     req.URL.Host,
		"path":     req.URL.Path,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("sanity request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("sanity request", fields)
	return resp, nil
}

// NewHTTPClient returns an http.Client with the logging transport and the
// given timeout (10s when zero).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}
