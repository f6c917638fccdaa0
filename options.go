package s3namic

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/rs/zerolog"

	"github.com/hyoj0942/s3namic/format"
)

// ClientConfig holds configuration options for creating a client.
type ClientConfig struct {
	// Region is the AWS region; falls back to the resolved config's region,
	// then to us-east-1
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible services
	Endpoint string

	// ForcePathStyle forces path-style addressing, required by most
	// S3-compatible services
	ForcePathStyle bool

	// MaxRetries is the retry attempt count for failed requests
	MaxRetries int

	// Timeout bounds each HTTP request when positive
	Timeout time.Duration

	// HTTPClient replaces the SDK's default HTTP client; ignored when
	// Timeout is set
	HTTPClient *http.Client

	// CustomAWSConfig bypasses the default credential chain entirely
	CustomAWSConfig *aws.Config

	// Filesystem backs UploadFile and DownloadFile
	Filesystem fs.Filesystem

	// Logger receives debug-level traversal and transfer events
	Logger *zerolog.Logger
}

// Option is a functional option for configuring a client.
type Option func(*ClientConfig)

// WithRegion sets the AWS region for the client.
func WithRegion(region string) Option {
	return func(c *ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint, for testing against MinIO,
// LocalStack, and other S3-compatible services.
func WithEndpoint(endpoint string) Option {
	return func(c *ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle enables path-style bucket addressing.
func WithForcePathStyle() Option {
	return func(c *ClientConfig) {
		c.ForcePathStyle = true
	}
}

// WithMaxRetries sets the retry count for failed requests.
func WithMaxRetries(retries int) Option {
	return func(c *ClientConfig) {
		c.MaxRetries = retries
	}
}

// WithTimeout sets a per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ClientConfig) {
		c.HTTPClient = client
	}
}

// WithAWSConfig uses a pre-built AWS configuration instead of the default
// credential chain.
func WithAWSConfig(cfg aws.Config) Option {
	return func(c *ClientConfig) {
		c.CustomAWSConfig = &cfg
	}
}

// WithFilesystem sets the filesystem used for local file transfer.
func WithFilesystem(filesystem fs.Filesystem) Option {
	return func(c *ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger attaches a logger; without it the client is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = &log
	}
}

// ReadConfig holds options shared by the typed read operations and the bulk
// ReadMany dispatcher.
type ReadConfig struct {
	// Format overrides extension-based format detection when non-empty
	Format format.Format

	// Encoding is the IANA charset name the object bytes are decoded from;
	// empty or utf-8 means no transcoding
	Encoding string

	// Separator is the CSV field separator; defaults to comma
	Separator rune

	// Delimiter is the hierarchy delimiter for ReadMany traversal
	Delimiter string

	// Contains filters ReadMany to keys containing the substring
	Contains string

	// Workers caps concurrent fetches in ReadMany
	Workers int
}

// ReadOption is a functional option for read operations.
type ReadOption func(*ReadConfig)

// WithFormat overrides extension-based format detection.
func WithFormat(f format.Format) ReadOption {
	return func(c *ReadConfig) {
		c.Format = f
	}
}

// WithEncoding sets the charset the object bytes are decoded from,
// by IANA name (for example "euc-kr" or "latin1").
func WithEncoding(name string) ReadOption {
	return func(c *ReadConfig) {
		c.Encoding = name
	}
}

// WithSeparator sets the CSV field separator.
func WithSeparator(sep rune) ReadOption {
	return func(c *ReadConfig) {
		c.Separator = sep
	}
}

// WithDelimiter sets the hierarchy delimiter for ReadMany traversal.
// Defaults to "/".
func WithDelimiter(delimiter string) ReadOption {
	return func(c *ReadConfig) {
		c.Delimiter = delimiter
	}
}

// WithContains restricts ReadMany to keys containing the substring.
func WithContains(substr string) ReadOption {
	return func(c *ReadConfig) {
		c.Contains = substr
	}
}

// WithWorkers caps the number of concurrent fetches in ReadMany.
// Defaults to 4.
func WithWorkers(n int) ReadOption {
	return func(c *ReadConfig) {
		c.Workers = n
	}
}

// WriteConfig holds options for the typed write operations.
type WriteConfig struct {
	// Compression compresses the payload before upload and appends the
	// matching extension to the key
	Compression format.Compression

	// Encoding is the IANA charset name the payload is encoded to before
	// upload; empty or utf-8 means no transcoding
	Encoding string

	// Separator is the CSV field separator; defaults to comma
	Separator rune

	// ContentType overrides content sniffing for the uploaded object
	ContentType string
}

// WriteOption is a functional option for write operations.
type WriteOption func(*WriteConfig)

// WithCompression compresses the payload and appends the matching extension
// (.gz or .bz2) to the object key.
func WithCompression(c format.Compression) WriteOption {
	return func(cfg *WriteConfig) {
		cfg.Compression = c
	}
}

// WithWriteEncoding sets the charset the payload is encoded to before upload.
func WithWriteEncoding(name string) WriteOption {
	return func(cfg *WriteConfig) {
		cfg.Encoding = name
	}
}

// WithWriteSeparator sets the CSV field separator for WriteCSV.
func WithWriteSeparator(sep rune) WriteOption {
	return func(cfg *WriteConfig) {
		cfg.Separator = sep
	}
}

// WithContentType sets the Content-Type of the uploaded object, bypassing
// content sniffing.
func WithContentType(contentType string) WriteOption {
	return func(cfg *WriteConfig) {
		cfg.ContentType = contentType
	}
}

func resolveReadConfig(opts []ReadOption) *ReadConfig {
	cfg := &ReadConfig{
		Separator: ',',
		Delimiter: "/",
		Workers:   4,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func resolveWriteConfig(opts []WriteOption) *WriteConfig {
	cfg := &WriteConfig{
		Separator: ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
