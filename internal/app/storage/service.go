/*
Package storage keeps the binary content of file and voice-note messages.

Blobs are addressed by the generated name stored in the message record. S3-compatible
object storage is used when configured, a local directory otherwise.
*/
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Read for an unknown name.
var ErrNotFound = errors.New("blob not found")

// BlobStore writes and reads blobs by name.
type BlobStore interface {
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
}

// Presigner is implemented by stores that can hand out temporary direct download URLs.
type Presigner interface {
	PresignDownload(ctx context.Context, name string, duration time.Duration) (string, error)
}

// S3Config holds the settings of an S3-compatible bucket.
type S3Config struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}
