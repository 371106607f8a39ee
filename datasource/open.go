package datasource

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Open resolves a dataset URI to a stream and a display name. Supported
// forms:
//
//	path/to/data.txt              local file
//	s3://bucket/key               S3, credentials from the default chain
//	minio://endpoint/bucket/key   S3-compatible store, credentials from the
//	                              MINIO_ACCESS_KEY/MINIO_SECRET_KEY env vars
//
// The caller closes the returned stream.
func Open(ctx context.Context, uri string) (io.ReadCloser, string, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		bucket, key, err := splitObjectURI(strings.TrimPrefix(uri, "s3://"))
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", uri, err)
		}

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("aws config: %w", err)
		}

		rc, err := NewS3(s3.NewFromConfig(cfg), bucket, "").Fetch(ctx, key)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", uri, err)
		}
		return rc, path.Base(key), nil

	case strings.HasPrefix(uri, "minio://"):
		rest := strings.TrimPrefix(uri, "minio://")
		endpoint, object, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, "", fmt.Errorf("%s: missing bucket and key", uri)
		}
		bucket, key, err := splitObjectURI(object)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", uri, err)
		}

		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: true,
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}

		rc, err := NewMinIO(client, bucket, "").Fetch(ctx, key)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", uri, err)
		}
		return rc, path.Base(key), nil

	default:
		rc, err := NewLocal(filepath.Dir(uri)).Fetch(ctx, filepath.Base(uri))
		if err != nil {
			return nil, "", err
		}
		return rc, filepath.Base(uri), nil
	}
}

func splitObjectURI(s string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(s, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("expected bucket/key, got %q", s)
	}
	return bucket, key, nil
}
