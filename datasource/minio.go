package datasource

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
)

// MinIO implements Fetcher for MinIO and S3-compatible storage.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIO creates a fetcher reading from the given bucket. rootPrefix is
// prepended to all keys.
func NewMinIO(client *minio.Client, bucket, rootPrefix string) *MinIO {
	return &MinIO{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (m *MinIO) key(name string) string {
	return path.Join(m.prefix, name)
}

func (m *MinIO) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	key := m.key(name)

	// Stat first so a missing object fails here rather than on first read.
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
