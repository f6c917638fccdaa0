package s3namic

import (
	"context"

	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/internal/walker"
)

// Tree is the nested directory mapping produced by MakeTree. Entries preserve
// the order the bucket listing returned them, and the tree marshals to JSON
// as a nested object with null leaf markers.
type Tree = walker.Tree

// MakeTree builds the nested mapping mirroring the bucket hierarchy under
// prefix, using delimiter as the level separator. When withFiles is set,
// object keys appear as leaf entries alongside the sub-trees.
//
// The tree is rebuilt from live listings on every call.
func (c *Client) MakeTree(ctx context.Context, prefix, delimiter string, withFiles bool) (*Tree, error) {
	tree, err := c.walker.BuildTree(ctx, prefix, delimiter, withFiles)
	if err != nil {
		return nil, errors.NewError("makeTree", err).WithBucket(c.bucket)
	}
	return tree, nil
}

// ListFiles returns the object keys directly under prefix, paging through the
// listing. An empty delimiter lists the whole subtree flat.
func (c *Client) ListFiles(ctx context.Context, prefix, delimiter string) ([]string, error) {
	keys, err := c.walker.ListKeys(ctx, prefix, delimiter)
	if err != nil {
		return nil, errors.NewError("listFiles", err).WithBucket(c.bucket)
	}
	return keys, nil
}

// FindFile searches the subtree under prefix for a key. Shallower matches win
// over deeper ones: each level's own files are checked before any descent
// into its sub-prefixes. With contains set, any key containing name matches;
// otherwise the full key must be equal.
//
// A miss returns ("", nil); an empty result is an answer, not an error.
func (c *Client) FindFile(ctx context.Context, name, prefix, delimiter string, contains bool) (string, error) {
	key, err := c.walker.FindFile(ctx, name, prefix, delimiter, contains)
	if err != nil {
		return "", errors.NewError("findFile", err).WithBucket(c.bucket)
	}
	return key, nil
}

// FindFiles returns every file key in the subtree under prefix, depth-first
// in the order the listings returned them.
func (c *Client) FindFiles(ctx context.Context, prefix, delimiter string) ([]string, error) {
	keys, err := c.walker.FindFiles(ctx, prefix, delimiter)
	if err != nil {
		return nil, errors.NewError("findFiles", err).WithBucket(c.bucket)
	}
	return keys, nil
}
