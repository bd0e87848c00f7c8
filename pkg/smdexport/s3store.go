package smdexport

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store reads and writes export documents in an S3 bucket. Teams sharing
// intersection models keep the exports in a bucket instead of mailing files
// around.
type S3Store struct {
	client S3API
	bucket string
}

// NewS3Store creates a store on an existing S3 client.
func NewS3Store(client S3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewS3StoreFromEnv creates a store using the default AWS credential chain.
func NewS3StoreFromEnv(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws configuration: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket), nil
}

// Get fetches and parses the export stored under key.
func (s *S3Store) Get(ctx context.Context, key string) (Export, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Export{}, fmt.Errorf("get smd export s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	return FromReader(out.Body)
}

// Put serializes the export and stores it under key.
func (s *S3Store) Put(ctx context.Context, key string, export Export) error {
	var buf bytes.Buffer
	if err := export.WriteTo(&buf); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put smd export s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
