package s3namic

import (
	"bytes"
	"context"
	"image"

	// Register the common image codecs for ReadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hyoj0942/s3namic/codec"
	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
)

// readRaw downloads an object and transparently decompresses it according to
// the key's compression suffix.
func (c *Client) readRaw(ctx context.Context, op, key string) ([]byte, error) {
	data, err := c.getObject(ctx, op, key)
	if err != nil {
		return nil, err
	}
	out, err := format.CompressionFor(key).Decompress(data)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key).
			WithMessage("decompress")
	}
	return out, nil
}

// ReadCSV downloads and parses a CSV object into a Table. The first record
// becomes the column header. Gzip/bz2 suffixes are decompressed transparently.
func (c *Client) ReadCSV(ctx context.Context, key string, opts ...ReadOption) (*codec.Table, error) {
	const op = "readCSV"
	cfg := resolveReadConfig(opts)

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodeCSV(data, codecOptions(cfg))
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v.(*codec.Table), nil
}

// ReadJSON downloads and unmarshals a JSON object into the generic types
// produced by encoding/json (map[string]any, []any, ...).
func (c *Client) ReadJSON(ctx context.Context, key string, opts ...ReadOption) (any, error) {
	const op = "readJSON"
	cfg := resolveReadConfig(opts)

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodeJSON(data, codecOptions(cfg))
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v, nil
}

// ReadJSONInto downloads a JSON object and unmarshals it into v, which must
// be a pointer.
func (c *Client) ReadJSONInto(ctx context.Context, key string, v any, opts ...ReadOption) error {
	const op = "readJSON"
	cfg := resolveReadConfig(opts)

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return err
	}
	text, err := codec.DecodeCharset(data, cfg.Encoding)
	if err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	if err := codec.UnmarshalJSON(text, v); err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return nil
}

// ReadText downloads a text object as a string, converting from the charset
// given via WithEncoding when set.
func (c *Client) ReadText(ctx context.Context, key string, opts ...ReadOption) (string, error) {
	const op = "readText"
	cfg := resolveReadConfig(opts)

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return "", err
	}
	v, err := codec.DecodeText(data, codecOptions(cfg))
	if err != nil {
		return "", errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v.(string), nil
}

// ReadPickle downloads and deserializes a Python pickle object. Structured
// values come back as gopickle container types.
func (c *Client) ReadPickle(ctx context.Context, key string, opts ...ReadOption) (any, error) {
	const op = "readPickle"

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodePickle(data, codec.Options{})
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v, nil
}

// ReadExcel downloads an xlsx object and reads its first sheet into a Table,
// with the sheet's first row as the column header.
func (c *Client) ReadExcel(ctx context.Context, key string, opts ...ReadOption) (*codec.Table, error) {
	const op = "readExcel"

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodeExcel(data, codec.Options{})
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v.(*codec.Table), nil
}

// ReadImage downloads and decodes an image object. PNG, JPEG, and GIF are
// registered; other formats need their codec imported by the caller.
func (c *Client) ReadImage(ctx context.Context, key string) (image.Image, error) {
	const op = "readImage"

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key).
			WithMessage("decode image")
	}
	return img, nil
}

// ReadAuto downloads an object and decodes it according to its key extension,
// or the format forced via WithFormat. Unsupported formats are rejected
// before the object is fetched.
func (c *Client) ReadAuto(ctx context.Context, key string, opts ...ReadOption) (any, error) {
	const op = "readAuto"
	cfg := resolveReadConfig(opts)

	f := cfg.Format
	if f == "" {
		f = format.Ext(key)
	}
	dec, err := codec.DecoderFor(f)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	v, err := dec(data, codecOptions(cfg))
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return v, nil
}

// codecOptions projects the read options onto the codec layer.
func codecOptions(cfg *ReadConfig) codec.Options {
	return codec.Options{
		Encoding:  cfg.Encoding,
		Separator: cfg.Separator,
	}
}
