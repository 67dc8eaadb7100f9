package storage

import (
	"io"
	"time"
)

// FileStorage is implemented by the S3 bucket client and the local files
// directory. PresignedURL returns "" when the backend cannot mint one
// (local storage), in which case the caller issues its own download token.
type FileStorage interface {
	Upload(key string, reader io.Reader, size int64, contentType string) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
	PresignedURL(key string, expires time.Duration) (string, error)
}
