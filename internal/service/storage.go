package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/forkful/forkful-backend/config"
)

// S3BlobStore stores media blobs in the configured S3 bucket.
type S3BlobStore struct {
	s3Config *config.S3Config
}

var _ BlobStore = (*S3BlobStore)(nil)

// NewS3BlobStore creates a new S3BlobStore instance
func NewS3BlobStore(s3Config *config.S3Config) *S3BlobStore {
	return &S3BlobStore{s3Config: s3Config}
}

// Upload stores data under key and returns the public URL.
func (s *S3BlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.s3Config.PublicURL(key)
	log.Printf("[S3BlobStore] Uploaded %s (%d bytes)", publicURL, len(data))

	return publicURL, nil
}
