// pkg/source/http.go
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPSource fetches the enrollment resource over HTTP(S). A failure is
// immediately fatal to the run; a full re-run is the only retry mechanism.
type HTTPSource struct {
	uri    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSource creates an HTTP-backed source with the given fetch timeout.
func NewHTTPSource(uri string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		uri: uri,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Open performs the fetch and returns the response body.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uri, nil)
	if err != nil {
		return nil, &UnavailableError{URI: s.uri, Err: err}
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &UnavailableError{URI: s.uri, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &UnavailableError{
			URI: s.uri,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	s.logger.Debug("Fetched source",
		zap.String("uri", s.uri),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Body, nil
}

// Describe returns the URI.
func (s *HTTPSource) Describe() string {
	return s.uri
}
