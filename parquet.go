package s3namic

import (
	"bytes"
	"context"

	"github.com/parquet-go/parquet-go"

	"github.com/hyoj0942/s3namic/codec"
	"github.com/hyoj0942/s3namic/errors"
)

// ReadParquet downloads a parquet object as dynamic rows, one map per row
// keyed by leaf column path. For typed access use ReadParquetInto.
func (c *Client) ReadParquet(ctx context.Context, key string, opts ...ReadOption) ([]map[string]any, error) {
	const op = "readParquet"

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	rows, err := codec.ParquetRows(data)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return rows, nil
}

// ReadParquetInto downloads a parquet object into a slice of T, whose struct
// fields define the expected schema. Generic functions cannot be methods, so
// the client is the first argument.
func ReadParquetInto[T any](ctx context.Context, c *Client, key string) ([]T, error) {
	const op = "readParquet"

	data, err := c.readRaw(ctx, op, key)
	if err != nil {
		return nil, err
	}
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return rows, nil
}

// WriteParquet renders rows of T as a parquet file, with the schema derived
// from T's struct fields, and uploads it. Compression options apply on top of
// parquet's own column encoding.
func WriteParquet[T any](ctx context.Context, c *Client, key string, rows []T, opts ...WriteOption) error {
	const op = "writeParquet"
	cfg := resolveWriteConfig(opts)

	var buf bytes.Buffer
	if err := parquet.Write(&buf, rows); err != nil {
		return errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
	}
	return c.writeObject(ctx, op, key, buf.Bytes(), cfg)
}
