// Package publish uploads rendered reports to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/config"
	"github.com/ankit-chaubey/image-metadata-extractor/core/logger"
)

// Publisher stores a report somewhere and returns where it went.
type Publisher interface {
	Publish(ctx context.Context, r *core.Report) (string, error)
}

// objectStore is the part of *minio.Client a publisher needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Publisher writes each report as a JSON object.
type S3Publisher struct {
	client objectStore
	config config.S3Config
}

// NewS3 connects to the configured endpoint and checks the bucket exists.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3Publisher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("S3 access key and secret key are required")
	}

	// Remove protocol prefix if present
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	p, err := newS3(ctx, client, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing reports to %s, bucket %s", endpoint, cfg.Bucket)
	return p, nil
}

func newS3(ctx context.Context, client objectStore, cfg config.S3Config) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}
	return &S3Publisher{client: client, config: cfg}, nil
}

// Publish uploads r under <prefix><file name>.json and returns the
// s3:// URI of the object.
func (p *S3Publisher) Publish(ctx context.Context, r *core.Report) (string, error) {
	body, err := core.MarshalReport(r)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	key := ObjectKey(p.config.Prefix, r.FilePath)

	ctx, cancel := withTimeout(ctx, p.config)
	defer cancel()

	_, err = p.client.PutObject(ctx, p.config.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"source-file": filepath.Base(r.FilePath)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report for %s: %w", r.FilePath, err)
	}
	uri := "s3://" + p.config.Bucket + "/" + key
	logger.Debug("published %s", uri)
	return uri, nil
}

// ObjectKey names the object holding the report for filePath.
func ObjectKey(prefix, filePath string) string {
	name := filepath.Base(filePath) + ".json"
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func withTimeout(ctx context.Context, cfg config.S3Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}
