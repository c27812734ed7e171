package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// StorageInterface stores generated report files.
// The local backend writes to disk; other backends can be added behind the
// same interface.
type StorageInterface interface {
	// SaveFile stores the content under key. A failed save leaves nothing
	// behind and never replaces an existing file with partial content.
	SaveFile(ctx context.Context, key string, reader io.Reader) error

	// ReadFile opens a stored file for reading
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage
	DeleteFile(ctx context.Context, key string) error

	// DownloadURL is the URL the API serves the file from
	DownloadURL(key string) string
}
