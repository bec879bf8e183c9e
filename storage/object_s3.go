package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/davidwtbuxton/captain-pasty/models"
)

const s3Timeout = 10 * time.Second

// S3ObjectStore implements ObjectStore on an S3 bucket. The storage path is
// used as the object key, optionally under a fixed key prefix.
type S3ObjectStore struct {
	bucket string
	prefix string
	client *s3.Client
}

// NewS3ObjectStore creates a new S3ObjectStore instance
func NewS3ObjectStore(bucket, prefix string) (*S3ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name must not be empty")
	}
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3ObjectStore{bucket: bucket, prefix: prefix, client: client}, nil
}

func (s *S3ObjectStore) Put(ctx context.Context, path string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	key := applyS3Prefix(s.prefix, path)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		log.Printf("[ERROR] S3 Put: failed to put object %s: %v", key, err)
		return &models.StorageError{Op: "put", Path: path, Err: err}
	}
	return nil
}

func (s *S3ObjectStore) Get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	key := applyS3Prefix(s.prefix, path)
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, &models.NotFoundError{Kind: "object", ID: path}
		}
		log.Printf("[ERROR] S3 Get: failed to get object %s: %v", key, err)
		return nil, &models.StorageError{Op: "get", Path: path, Err: err}
	}
	defer func() {
		_ = obj.Body.Close()
	}()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		log.Printf("[ERROR] S3 Get: failed to read object body %s: %v", key, err)
		return nil, &models.StorageError{Op: "get", Path: path, Err: err}
	}
	return data, nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	key := applyS3Prefix(s.prefix, path)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isS3NotFound(err) {
		log.Printf("[ERROR] S3 Delete: failed to delete object %s: %v", key, err)
		return &models.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// isS3NotFound reports whether err is S3's flavor of "no such object".
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "NoSuchKey" || code == "NotFound" || code == "404" {
			return true
		}
	}
	// Fallback for errors that only carry the HTTP status.
	return strings.Contains(err.Error(), "StatusCode: 404")
}
