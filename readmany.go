package s3namic

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyoj0942/s3namic/codec"
	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
)

// DefaultReadWorkers is the ReadMany concurrency cap when WithWorkers is not
// given.
const DefaultReadWorkers = 4

// ReadMany recursively discovers every file under prefix, optionally filters
// the keys with WithContains, and fetches and decodes them concurrently.
// Results are returned in discovery order regardless of worker count.
//
// Decoders are resolved for all keys before any fetch starts, so a single
// unsupported extension fails the whole call up front. The first fetch or
// decode error cancels the remaining work and is returned.
func (c *Client) ReadMany(ctx context.Context, prefix string, opts ...ReadOption) ([]any, error) {
	const op = "readMany"
	cfg := resolveReadConfig(opts)

	keys, err := c.walker.FindFiles(ctx, prefix, cfg.Delimiter)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(c.bucket)
	}
	if cfg.Contains != "" {
		filtered := keys[:0]
		for _, key := range keys {
			if strings.Contains(key, cfg.Contains) {
				filtered = append(filtered, key)
			}
		}
		keys = filtered
	}

	type task struct {
		key string
		dec codec.DecodeFunc
	}
	tasks := make([]task, len(keys))
	for i, key := range keys {
		f := cfg.Format
		if f == "" {
			f = format.Ext(key)
		}
		dec, err := codec.DecoderFor(f)
		if err != nil {
			return nil, errors.NewError(op, err).WithBucket(c.bucket).WithKey(key)
		}
		tasks[i] = task{key: key, dec: dec}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultReadWorkers
	}
	copts := codecOptions(cfg)

	results := make([]any, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range tasks {
		g.Go(func() error {
			data, err := c.readRaw(gctx, op, t.key)
			if err != nil {
				return err
			}
			v, err := t.dec(data, copts)
			if err != nil {
				return errors.NewError(op, err).WithBucket(c.bucket).WithKey(t.key)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("prefix", prefix).
		Int("files", len(tasks)).
		Int("workers", workers).
		Msg("bulk read complete")
	return results, nil
}
