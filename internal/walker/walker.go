// Package walker implements the listing-driven traversal core: paginated
// listing, delimiter-based tree construction, and recursive key search.
//
// Traversal uses an explicit worklist instead of recursion so depth is bounded
// by the heap and the visit order is deterministic and testable: prefixes are
// processed depth-first in the order the lister returns them.
package walker

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/hyoj0942/s3namic/internal/s3api"
)

// Walker drives listing-based traversals over a single bucket.
type Walker struct {
	api    s3api.S3API
	bucket string
	log    zerolog.Logger
}

// New creates a Walker bound to a bucket.
func New(api s3api.S3API, bucket string, log zerolog.Logger) *Walker {
	return &Walker{
		api:    api,
		bucket: bucket,
		log:    log,
	}
}

// Page is one page of a delimiter-grouped listing.
type Page struct {
	// CommonPrefixes are the sub-directory groupings at this level
	CommonPrefixes []string

	// Keys are the object keys at this level
	Keys []string
}

// Pager presents ListObjectsV2 continuation-token pagination as a lazy page
// sequence. Each Next call issues at most one network request.
type Pager struct {
	api               s3api.S3API
	bucket            string
	prefix            string
	delimiter         string
	continuationToken *string
	firstPage         bool
	done              bool
}

// Pages returns a fresh pager for the prefix. The sequence is restartable by
// calling Pages again.
func (w *Walker) Pages(prefix, delimiter string) *Pager {
	return &Pager{
		api:       w.api,
		bucket:    w.bucket,
		prefix:    prefix,
		delimiter: delimiter,
		firstPage: true,
	}
}

// Next fetches the next page, or returns (nil, nil) once the listing is
// exhausted.
func (p *Pager) Next(ctx context.Context) (*Page, error) {
	if p.done {
		return nil, nil
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.bucket),
		Prefix:  aws.String(p.prefix),
		MaxKeys: aws.Int32(1000),
	}
	if p.delimiter != "" {
		input.Delimiter = aws.String(p.delimiter)
	}
	if !p.firstPage && p.continuationToken != nil {
		input.ContinuationToken = p.continuationToken
	}

	output, err := p.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("list objects page: %w", err)
	}

	p.firstPage = false
	p.continuationToken = output.NextContinuationToken
	if !aws.ToBool(output.IsTruncated) {
		p.done = true
	}

	page := &Page{
		CommonPrefixes: make([]string, 0, len(output.CommonPrefixes)),
		Keys:           make([]string, 0, len(output.Contents)),
	}
	for _, cp := range output.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}
	for _, obj := range output.Contents {
		page.Keys = append(page.Keys, aws.ToString(obj.Key))
	}
	return page, nil
}

// BuildTree assembles the nested mapping mirroring the bucket hierarchy under
// prefix. When withFiles is set, object keys are inserted as leaf entries.
//
// The tree is built fresh on every call; nothing is cached.
func (w *Walker) BuildTree(ctx context.Context, prefix, delimiter string, withFiles bool) (*Tree, error) {
	root := NewTree()

	type item struct {
		prefix string
		node   *Tree
	}
	stack := []item{{prefix: prefix, node: root}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pager := w.Pages(it.prefix, delimiter)
		var children []item
		for {
			page, err := pager.Next(ctx)
			if err != nil {
				return nil, err
			}
			if page == nil {
				break
			}
			for _, cp := range page.CommonPrefixes {
				child := NewTree()
				it.node.add(cp, child)
				children = append(children, item{prefix: cp, node: child})
			}
			if withFiles {
				for _, key := range page.Keys {
					it.node.add(key, nil)
				}
			}
		}
		w.log.Debug().
			Str("prefix", it.prefix).
			Int("subPrefixes", len(children)).
			Msg("tree level listed")

		// Push in reverse so the first listed prefix is expanded next,
		// preserving depth-first order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return root, nil
}

// FindFile searches for a key under prefix. Each level is scanned in two
// passes, both re-listing the level: first the level's own keys in page
// order, then a depth-first descent into its common prefixes. A match at a
// shallower level therefore always wins over a deeper one. Substring matching
// is used when contains is set, exact equality otherwise.
//
// The empty string with a nil error means no match anywhere in the subtree;
// that is a valid outcome, not a failure.
func (w *Walker) FindFile(ctx context.Context, name, prefix, delimiter string, contains bool) (string, error) {
	stack := []string{prefix}

	for len(stack) > 0 {
		level := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pager := w.Pages(level, delimiter)
		for {
			page, err := pager.Next(ctx)
			if err != nil {
				return "", err
			}
			if page == nil {
				break
			}
			for _, key := range page.Keys {
				if matches(key, name, contains) {
					return key, nil
				}
			}
		}

		// Second pass over the same level for its sub-prefixes.
		pager = w.Pages(level, delimiter)
		var prefixes []string
		for {
			page, err := pager.Next(ctx)
			if err != nil {
				return "", err
			}
			if page == nil {
				break
			}
			prefixes = append(prefixes, page.CommonPrefixes...)
		}
		for i := len(prefixes) - 1; i >= 0; i-- {
			stack = append(stack, prefixes[i])
		}
	}
	return "", nil
}

// FindFiles returns every file key under prefix in discovery order, by
// building a with-files tree and flattening its leaves.
func (w *Walker) FindFiles(ctx context.Context, prefix, delimiter string) ([]string, error) {
	tree, err := w.BuildTree(ctx, prefix, delimiter, true)
	if err != nil {
		return nil, err
	}
	return tree.Leaves(), nil
}

// ListKeys collects all object keys from a single (non-grouped when delimiter
// is empty) paginated listing under prefix.
func (w *Walker) ListKeys(ctx context.Context, prefix, delimiter string) ([]string, error) {
	var keys []string
	pager := w.Pages(prefix, delimiter)
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if page == nil {
			break
		}
		keys = append(keys, page.Keys...)
	}
	return keys, nil
}

func matches(key, name string, contains bool) bool {
	if contains {
		return strings.Contains(key, name)
	}
	return key == name
}
