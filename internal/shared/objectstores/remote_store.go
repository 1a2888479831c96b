package objectstores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"server-runner/internal/shared/configs"
)

const (
	ProviderGCS = "gcs"
	ProviderS3  = "s3"

	archiveContentType = "application/zip"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes one object in the remote bucket.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// RemoteStore is a flat bucket of backup archives keyed by file name.
//
//go:generate mockgen -source=remote_store.go -destination=./mocks/remote_store_mock.go -package=mocks
type RemoteStore interface {
	Bucket() string
	// EnsureBucket creates the bucket when it is missing and reports whether it did.
	EnsureBucket(ctx context.Context) (bool, error)
	List(ctx context.Context) ([]ObjectInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Upload stores size bytes from r under key. Pass an io.ReadSeeker (e.g. *os.File) when the
	// provider needs to re-read the body for signing.
	Upload(ctx context.Context, key string, r io.Reader, size int64) error
	// Open returns a reader for key and its size. Missing keys return ErrObjectNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Close() error
}

// New builds the store selected by cfg.Provider. It returns (nil, nil) when syncing is disabled.
func New(ctx context.Context, cfg configs.SyncConfig) (RemoteStore, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderGCS:
		return NewGCSStore(ctx, GCSOptions{
			Bucket:          cfg.Bucket,
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
	case ProviderS3:
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported sync provider %q", cfg.Provider)
	}
}
