package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source reads catalog documents from an S3-compatible object store.
type S3Source struct {
	client *s3.Client
}

// NewS3Source creates a source with static credentials. An empty endpoint
// uses the AWS default endpoint for region.
func NewS3Source(endpoint, region, accessKey, secretKey string) *S3Source {
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return &S3Source{client: s3.New(opts)}
}

// GetObject returns the object body and its content type.
func (s *S3Source) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}
