// Package archive keeps copies of generated portfolio artifacts.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores an artifact under key.
type Archive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Key returns the object key for a user's artifact.
func Key(userID, filename string) string {
	return path.Join("portfolios", userID, filename)
}

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes artifacts to a bucket, optionally under a key prefix.
type S3Archive struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Archive(client S3API, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (a *S3Archive) objectKey(key string) string {
	if a.prefix == "" {
		return key
	}
	return a.prefix + "/" + key
}

func (a *S3Archive) Put(ctx context.Context, key, contentType string, body []byte) error {
	objectKey := a.objectKey(key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", objectKey, err)
	}
	return nil
}

// NopArchive discards everything. Used when archival is disabled.
type NopArchive struct{}

func (NopArchive) Put(context.Context, string, string, []byte) error { return nil }
