package s3namic

import (
	"context"

	"github.com/hyoj0942/s3namic/codec"
	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
)

// WriteBytes uploads raw bytes under the key. When WithCompression is given
// the payload is compressed and the matching extension (.gz or .bz2) is
// appended to the key, so "data.csv" written with gzip is stored as
// "data.csv.gz".
func (c *Client) WriteBytes(ctx context.Context, key string, data []byte, opts ...WriteOption) error {
	cfg := resolveWriteConfig(opts)
	return c.writeObject(ctx, "writeBytes", key, data, cfg)
}

// WriteCSV renders a Table as CSV (header first) and uploads it.
func (c *Client) WriteCSV(ctx context.Context, key string, table *codec.Table, opts ...WriteOption) error {
	const op = "writeCSV"
	cfg := resolveWriteConfig(opts)

	data, err := codec.EncodeCSV(table, codec.Options{
		Encoding:  cfg.Encoding,
		Separator: cfg.Separator,
	})
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return c.writeObject(ctx, op, key, data, cfg)
}

// WriteJSON marshals a value as JSON and uploads it.
func (c *Client) WriteJSON(ctx context.Context, key string, v any, opts ...WriteOption) error {
	const op = "writeJSON"
	cfg := resolveWriteConfig(opts)

	data, err := codec.EncodeJSON(v)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	data, err = codec.EncodeCharset(data, cfg.Encoding)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return c.writeObject(ctx, op, key, data, cfg)
}

// WriteText uploads a string, converting to the charset given via
// WithWriteEncoding when set.
func (c *Client) WriteText(ctx context.Context, key, text string, opts ...WriteOption) error {
	const op = "writeText"
	cfg := resolveWriteConfig(opts)

	data, err := codec.EncodeCharset([]byte(text), cfg.Encoding)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return c.writeObject(ctx, op, key, data, cfg)
}

// Compress re-stores an object's logical content under its compressed name:
// "logs/a.csv" compressed with gzip becomes "logs/a.csv.gz". A key that
// already carries a compression suffix is decompressed first, so the payload
// is never compressed twice; "a.csv.bz2" compressed with gzip becomes
// "a.csv.gz". The source object is left in place.
func (c *Client) Compress(ctx context.Context, key string, comp format.Compression) error {
	const op = "compress"
	if comp == format.None {
		return errors.NewError(op, errors.ErrUnsupportedCompression).
			WithBucket(c.bucket).WithKey(key)
	}

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return err
	}
	compressed, err := comp.Compress(data)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return c.putObject(ctx, op, comp.WithSuffix(format.TrimSuffix(key)), compressed, "")
}

// Decompress re-stores a compressed object under its name without the
// compression suffix: "logs/a.csv.gz" becomes "logs/a.csv". The compressed
// object is left in place. Keys without a recognised suffix are rejected.
func (c *Client) Decompress(ctx context.Context, key string) error {
	const op = "decompress"
	if format.CompressionFor(key) == format.None {
		return errors.NewError(op, errors.ErrUnsupportedCompression).
			WithBucket(c.bucket).WithKey(key).
			WithMessage("key has no compression suffix")
	}

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return err
	}
	return c.putObject(ctx, op, format.TrimSuffix(key), data, "")
}

// writeObject applies compression and the matching key suffix, then uploads.
func (c *Client) writeObject(ctx context.Context, op, key string, data []byte, cfg *WriteConfig) error {
	if cfg.Compression != format.None {
		compressed, err := cfg.Compression.Compress(data)
		if err != nil {
			return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
		}
		data = compressed
		key = cfg.Compression.WithSuffix(key)
	}
	return c.putObject(ctx, op, key, data, cfg.ContentType)
}
