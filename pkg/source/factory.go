// pkg/source/factory.go
package source

import (
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// New creates a source for the given URI. http:// and https:// URIs are
// fetched over the network; everything else is treated as a local path.
func New(uri string, timeout time.Duration, logger *zap.Logger) Source {
	if isHTTP(uri) {
		logger.Info("Creating HTTP source", zap.String("uri", uri))
		return NewHTTPSource(uri, timeout, logger)
	}

	logger.Info("Creating file source", zap.String("path", uri))
	return NewFileSource(uri, logger)
}

// isHTTP reports whether the URI has an http or https scheme.
func isHTTP(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
