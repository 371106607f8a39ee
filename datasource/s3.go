package datasource

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 implements Fetcher for S3.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates a fetcher reading from the given bucket. rootPrefix is
// prepended to all keys (e.g. "datasets/").
func NewS3(client *s3.Client, bucket, rootPrefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *S3) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *S3) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}
