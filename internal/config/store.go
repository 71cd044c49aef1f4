package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-logr/logr"
)

// Store fetches the host configuration document. Implementations read the
// document on every call and never cache it.
type Store interface {
	Fetch(ctx context.Context) (*HostConfigs, error)
}

// GetObjectAPI is the subset of the S3 client used by S3Store.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads the configuration document from an S3 object.
type S3Store struct {
	api    GetObjectAPI
	bucket string
	key    string
	log    logr.Logger
}

// NewS3Store creates a store for s3://bucket/key using the default AWS
// credential chain in the given region.
func NewS3Store(ctx context.Context, log logr.Logger, region, bucket, key string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewS3StoreWithAPI(log, s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3StoreWithAPI creates a store on top of an existing S3 client.
func NewS3StoreWithAPI(log logr.Logger, api GetObjectAPI, bucket, key string) *S3Store {
	return &S3Store{api: api, bucket: bucket, key: key, log: log}
}

// Fetch downloads and parses the document. Every failure wraps ErrConfigUnavailable.
func (s *S3Store) Fetch(ctx context.Context) (*HostConfigs, error) {
	s.log.V(1).Info("fetching config", "bucket", s.bucket, "key", s.key)

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: getting s3://%s/%s: %w", ErrConfigUnavailable, s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading s3://%s/%s: %w", ErrConfigUnavailable, s.bucket, s.key, err)
	}

	hosts, err := Parse(data, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}
	return hosts, nil
}

// FileStore reads the configuration document from the local filesystem.
type FileStore struct {
	path string
	log  logr.Logger
}

// NewFileStore creates a store for the document at path.
func NewFileStore(log logr.Logger, path string) *FileStore {
	return &FileStore{path: path, log: log}
}

// Fetch reads and parses the document. Every failure wraps ErrConfigUnavailable.
func (f *FileStore) Fetch(_ context.Context) (*HostConfigs, error) {
	f.log.V(1).Info("reading config", "path", f.path)

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config file: %w", ErrConfigUnavailable, err)
	}

	hosts, err := Parse(data, f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}
	return hosts, nil
}
