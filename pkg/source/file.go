// pkg/source/file.go
package source

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
)

// FileSource reads the enrollment resource from the local filesystem.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Open opens the file for reading.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{URI: s.path, Err: err}
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &UnavailableError{URI: s.path, Err: err}
	}

	info, err := f.Stat()
	if err == nil {
		s.logger.Debug("Opened source file",
			zap.String("path", s.path),
			zap.Int64("bytes", info.Size()))
	}

	return f, nil
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}
