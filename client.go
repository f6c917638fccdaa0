package s3namic

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/rs/zerolog"

	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/internal/s3api"
	"github.com/hyoj0942/s3namic/internal/validation"
	"github.com/hyoj0942/s3namic/internal/walker"
)

// Client is bound to one bucket and provides thread-safe access to its
// objects. All methods may be called concurrently; the client holds no
// per-call state.
type Client struct {
	// api is the narrow S3 interface all operations go through
	api s3api.S3API

	// presign generates time-limited object URLs
	presign s3api.PresignAPI

	// bucket is the bucket every operation targets
	bucket string

	// config holds the resolved AWS configuration
	config aws.Config

	// fs is the filesystem abstraction for local file transfer
	fs fs.Filesystem

	// log is a no-op logger unless configured via WithLogger
	log zerolog.Logger

	// walker drives listing-based traversals
	walker *walker.Walker
}

// New creates a client bound to the bucket, loading AWS credentials through
// the default credential chain and applying the given options.
//
// Example:
//
//	client, err := s3namic.New("my-bucket",
//	    s3namic.WithRegion("us-west-2"),
//	    s3namic.WithMaxRetries(3),
//	)
func New(bucket string, opts ...Option) (*Client, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	clientCfg := &ClientConfig{
		MaxRetries: 3, // Default retry count
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error
	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err).WithBucket(bucket)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}
	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{Timeout: clientCfg.Timeout}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	} else if clientCfg.HTTPClient != nil {
		httpClient := clientCfg.HTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	rawClient := s3.NewFromConfig(cfg, s3Opts...)

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	log := zerolog.Nop()
	if clientCfg.Logger != nil {
		log = *clientCfg.Logger
	}

	client := &Client{
		api:     rawClient,
		presign: s3.NewPresignClient(rawClient),
		bucket:  bucket,
		config:  cfg,
		fs:      filesystem,
		log:     log,
		walker:  walker.New(rawClient, bucket, log),
	}
	return client, nil
}

// NewWithClient creates a client with a custom S3API implementation.
// This is primarily used for testing with mocked or in-memory clients.
func NewWithClient(bucket string, api s3api.S3API) *Client {
	log := zerolog.Nop()
	return &Client{
		api:    api,
		bucket: bucket,
		config: aws.Config{},
		fs:     billy.NewOSFS("/"), // Default to OS filesystem
		log:    log,
		walker: walker.New(api, bucket, log),
	}
}

// Bucket returns the bucket the client is bound to.
func (c *Client) Bucket() string {
	return c.bucket
}

// setFilesystem replaces the filesystem used by UploadFile and DownloadFile.
// Test seam; production callers configure this through WithFilesystem.
func (c *Client) setFilesystem(filesystem fs.Filesystem) {
	c.fs = filesystem
}

// setPresignClient replaces the presign implementation. Test seam.
func (c *Client) setPresignClient(presign s3api.PresignAPI) {
	c.presign = presign
}
