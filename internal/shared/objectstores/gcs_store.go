package objectstores

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GCSOptions struct {
	Bucket          string
	ProjectID       string // needed only to create the bucket
	CredentialsFile string // empty uses application default credentials
}

type gcsStore struct {
	client    *storage.Client
	bucket    string
	projectID string
}

func NewGCSStore(ctx context.Context, opts GCSOptions) (RemoteStore, error) {
	if opts.Bucket == "" {
		return nil, errors.New("gcs bucket name is empty")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &gcsStore{client: client, bucket: opts.Bucket, projectID: opts.ProjectID}, nil
}

func (s *gcsStore) Bucket() string { return s.bucket }

func (s *gcsStore) EnsureBucket(ctx context.Context) (bool, error) {
	bucket := s.client.Bucket(s.bucket)
	_, err := bucket.Attrs(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return false, fmt.Errorf("failed to read bucket %q: %w", s.bucket, err)
	}
	if s.projectID == "" {
		return false, fmt.Errorf("bucket %q does not exist and no project id is configured", s.bucket)
	}

	// private bucket: uniform access, no per-object ACLs
	err = bucket.Create(ctx, s.projectID, &storage.BucketAttrs{
		Location: "US",
		UniformBucketLevelAccess: storage.UniformBucketLevelAccess{
			Enabled: true,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	return true, nil
}

func (s *gcsStore) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	it := s.client.Bucket(s.bucket).Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %q: %w", s.bucket, err)
		}
		objects = append(objects, ObjectInfo{Key: attrs.Name, Size: attrs.Size, LastModified: attrs.Updated})
	}
	return objects, nil
}

func (s *gcsStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, err
}

func (s *gcsStore) Upload(ctx context.Context, key string, r io.Reader, size int64) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = archiveContentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %q: %w", key, err)
	}
	// the object is only committed on Close
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize %q: %w", key, err)
	}
	return nil
}

func (s *gcsStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, 0, ErrObjectNotFound
		}
		return nil, 0, err
	}
	return reader, reader.Attrs.Size, nil
}

func (s *gcsStore) Close() error {
	return s.client.Close()
}
