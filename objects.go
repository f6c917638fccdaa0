package s3namic

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
	"github.com/hyoj0942/s3namic/internal/validation"
)

// DefaultPresignExpiry is the lifetime of presigned URLs when none is given.
const DefaultPresignExpiry = time.Hour

// ObjectMetadata describes an object without fetching its content.
type ObjectMetadata struct {
	ContentType   string
	ContentLength int64
	LastModified  time.Time
	ETag          string
	Metadata      map[string]string
}

// Put uploads raw bytes under the key. The Content-Type is sniffed from the
// payload unless overridden with WithContentType. No compression or key
// rewriting is applied; see WriteBytes for suffix-aware writes.
func (c *Client) Put(ctx context.Context, key string, data []byte, opts ...WriteOption) error {
	cfg := resolveWriteConfig(opts)
	return c.putObject(ctx, "put", key, data, cfg.ContentType)
}

// Get downloads the raw object bytes. Missing objects return
// ErrObjectNotFound; compressed objects are returned as stored.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	return c.getObject(ctx, "get", key)
}

// Delete removes the object. Deleting a missing key succeeds, matching S3
// semantics.
func (c *Client) Delete(ctx context.Context, key string) error {
	const op = "delete"
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	c.log.Debug().Str("key", key).Msg("object deleted")
	return nil
}

// Exists reports whether the key is present in the bucket.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	const op = "exists"
	if err := validation.ValidateObjectKey(key); err != nil {
		return false, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return true, nil
}

// Metadata returns the object's metadata without downloading its content.
func (c *Client) Metadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	const op = "metadata"
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	output, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NewError(op, errors.ErrObjectNotFound).WithBucket(c.bucket).WithKey(key)
		}
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	meta := &ObjectMetadata{
		ContentType:   aws.ToString(output.ContentType),
		ContentLength: aws.ToInt64(output.ContentLength),
		ETag:          aws.ToString(output.ETag),
		Metadata:      output.Metadata,
	}
	if output.LastModified != nil {
		meta.LastModified = *output.LastModified
	}
	return meta, nil
}

// PresignURL generates a time-limited GET URL for the object. A zero or
// negative expiry falls back to DefaultPresignExpiry.
func (c *Client) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	const op = "presignURL"
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	if c.presign == nil {
		return "", errors.NewError(op, errors.ErrInvalidInput).
			WithBucket(c.bucket).WithKey(key).
			WithMessage("client has no presign support")
	}
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return req.URL, nil
}

// UploadFile reads a local file through the client's filesystem and uploads
// it under the key.
func (c *Client) UploadFile(ctx context.Context, key, localPath string, opts ...WriteOption) error {
	const op = "uploadFile"
	cfg := resolveWriteConfig(opts)

	data, err := c.fs.ReadFile(localPath)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key).
			WithMessage("read local file " + localPath)
	}
	if cfg.Compression != format.None {
		data, err = cfg.Compression.Compress(data)
		if err != nil {
			return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
		}
		key = cfg.Compression.WithSuffix(key)
	}
	return c.putObject(ctx, op, key, data, cfg.ContentType)
}

// DownloadFile fetches the object and writes it to a local file through the
// client's filesystem.
func (c *Client) DownloadFile(ctx context.Context, key, localPath string) error {
	const op = "downloadFile"
	data, err := c.getObject(ctx, op, key)
	if err != nil {
		return err
	}
	if err := c.fs.WriteFile(localPath, data, 0o644); err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key).
			WithMessage("write local file " + localPath)
	}
	c.log.Debug().Str("key", key).Str("path", localPath).Msg("object downloaded")
	return nil
}

// putObject is the shared upload path: validate, sniff content type, upload.
func (c *Client) putObject(ctx context.Context, op, key string, data []byte, contentType string) error {
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	c.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("object uploaded")
	return nil
}

// getObject is the shared download path: validate, fetch, drain the body.
func (c *Client) getObject(ctx context.Context, op, key string) ([]byte, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	output, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NewError(op, errors.ErrObjectNotFound).WithBucket(c.bucket).WithKey(key)
		}
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key).
			WithMessage("read object body")
	}
	return data, nil
}

// isNotFound recognises the SDK's missing-object error shapes.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if stderrors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return stderrors.As(err, &notFound)
}
