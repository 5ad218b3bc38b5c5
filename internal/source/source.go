// Package source reads input documents and writes annotated outputs, either
// on the local filesystem or in S3 when the location is an s3://bucket/key URI.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

var (
	// ErrNotFound is returned when a local input does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrS3Unavailable is returned for s3:// locations when no S3 client is configured.
	ErrS3Unavailable = errors.New("s3 location given but no S3 client configured")
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store resolves locations to bytes.
type Store struct {
	s3 S3API
}

// New returns a Store. s3api may be nil when only local paths are used.
func New(s3api S3API) *Store {
	return &Store{s3: s3api}
}

// NewFromConfig returns a Store backed by an S3 client built from cfg.
func NewFromConfig(cfg aws.Config, endpoint string, pathStyle bool) *Store {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})
	return New(client)
}

// IsS3 reports whether loc is an s3:// URI.
func IsS3(loc string) bool {
	return strings.HasPrefix(loc, s3Scheme)
}

// ParseS3URI splits an s3://bucket/key URI.
func ParseS3URI(loc string) (bucket, key string, err error) {
	if !IsS3(loc) {
		return "", "", fmt.Errorf("not an s3 uri: %s", loc)
	}
	rest := strings.TrimPrefix(loc, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: expected s3://bucket/key", loc)
	}
	return bucket, key, nil
}

// Read returns the content stored at loc.
func (s *Store) Read(ctx context.Context, loc string) ([]byte, error) {
	if !IsS3(loc) {
		data, err := os.ReadFile(loc) //nolint:gosec // G304: reading user-provided input path is expected
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
			}
			return nil, fmt.Errorf("failed to read %s: %w", loc, err)
		}
		return data, nil
	}

	if s.s3 == nil {
		return nil, ErrS3Unavailable
	}
	bucket, key, err := ParseS3URI(loc)
	if err != nil {
		return nil, err
	}
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", loc, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", loc, err)
	}
	return data, nil
}

// Write stores data at loc, creating parent directories for local paths.
func (s *Store) Write(ctx context.Context, loc string, data []byte) error {
	if !IsS3(loc) {
		if dir := filepath.Dir(loc); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		//nolint:gosec // G306: annotated outputs are meant to be shared like their inputs
		if err := os.WriteFile(loc, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", loc, err)
		}
		return nil
	}

	if s.s3 == nil {
		return ErrS3Unavailable
	}
	bucket, key, err := ParseS3URI(loc)
	if err != nil {
		return err
	}
	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", loc, err)
	}
	return nil
}
