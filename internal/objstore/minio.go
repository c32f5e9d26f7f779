package objstore

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Option func(c *config)

type config struct {
	endpoint  string
	bucket    string
	accessKey string
	secretKey string
	useSSL    bool
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// UploadResult reports where an object landed.
type UploadResult struct {
	Key       string
	RemoteURL string
}

// Client stores local files durably under remote keys. A client without an
// endpoint configured is valid and simply reports itself unavailable, so the
// pipeline can keep artifacts local.
type Client struct {
	cfg    *config
	client *minio.Client
}

func New(opts ...Option) (*Client, error) {
	cfg := newConfig(opts...)

	if cfg.endpoint == "" || cfg.bucket == "" {
		return &Client{cfg: cfg}, nil
	}

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, client: minioClient}, nil
}

// Available reports whether the store is configured and the bucket reachable.
func (c *Client) Available(ctx context.Context) bool {
	if c.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := c.client.BucketExists(ctx, c.cfg.bucket)
	if err != nil {
		zap.S().Named("objstore").Warnf("bucket check failed for %s: %s", c.cfg.bucket, err)
		return false
	}
	return exists
}

// Upload stores a local file under key with optional user metadata.
func (c *Client) Upload(ctx context.Context, localPath, key string, metadata map[string]string) (*UploadResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("object store is not configured")
	}

	_, err := c.client.FPutObject(ctx, c.cfg.bucket, key, localPath, minio.PutObjectOptions{
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s to %s: %w", localPath, key, err)
	}

	scheme := "http"
	if c.cfg.useSSL {
		scheme = "https"
	}

	return &UploadResult{
		Key:       key,
		RemoteURL: fmt.Sprintf("%s://%s/%s/%s", scheme, c.cfg.endpoint, c.cfg.bucket, key),
	}, nil
}

func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) Option {
	return func(c *config) {
		c.bucket = bucket
	}
}

func WithAccessKey(accessKey string) Option {
	return func(c *config) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) Option {
	return func(c *config) {
		c.secretKey = secretKey
	}
}

func WithSSL(useSSL bool) Option {
	return func(c *config) {
		c.useSSL = useSSL
	}
}
